package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The generation, language-listing, and search verbs sit on the consumer
// side of the template-engine contract and are out of scope here; they are
// registered so the command surface matches the documented verb set, but
// each exits non-zero until a template engine is wired in.

func newGenClientSDKCmd() *cobra.Command {
	return notImplementedCmd("gen-client-sdk", "generate a client SDK from a Resolved Schema")
}

func newGenClientAPICmd() *cobra.Command {
	return notImplementedCmd("gen-client-api", "generate a client API surface from a Resolved Schema")
}

func newLanguagesCmd() *cobra.Command {
	return notImplementedCmd("languages", "list supported generation target languages")
}

func newSearchCmd() *cobra.Command {
	return notImplementedCmd("search", "search a Resolved Schema's catalog")
}

func notImplementedCmd(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("%s: not implemented by this resolver", use)
		},
	}
}
