package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "quote"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "venue-quote", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestQuoteCommand_Flags(t *testing.T) {
	flag := quoteCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "json", flag.DefValue)
	assert.Equal(t, "o", flag.Shorthand)

	require.NotNil(t, quoteCmd.Flags().Lookup("quiet"))
}

func TestQuoteCommand_RequiresOneArg(t *testing.T) {
	assert.Error(t, quoteCmd.Args(quoteCmd, nil))
	assert.Error(t, quoteCmd.Args(quoteCmd, []string{"a", "b"}))
	assert.NoError(t, quoteCmd.Args(quoteCmd, []string{"https://hotel.com"}))
}
