package main

import (
	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/cmds/middlewares"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/spf13/cobra"

	appcmds "github.com/go-go-golems/text-manipulation/cmds"
	appdoc "github.com/go-go-golems/text-manipulation/pkg/doc"
	vglazed "github.com/go-go-golems/text-manipulation/pkg/glazed"
	"github.com/go-go-golems/text-manipulation/pkg/vaultlayer"
)

var version = "dev"

func getMiddlewares(parsedLayers *layers.ParsedLayers, cmd *cobra.Command, args []string) ([]middlewares.Middleware, error) {
	commandSettings := &cli.CommandSettings{}
	err := parsedLayers.InitializeStruct(cli.CommandSettingsSlug, commandSettings)
	if err != nil {
		return nil, err
	}

	mw_ := []middlewares.Middleware{
		middlewares.ParseFromCobraCommand(cmd,
			parameters.WithParseStepSource("cobra"),
		),
		middlewares.GatherArguments(args,
			parameters.WithParseStepSource("arguments"),
		),
		vglazed.UpdateFromVault(parameters.WithParseStepSource("vault")),
		// the vault layer is resolved first so the settings secret can be located
		middlewares.WrapWithWhitelistedLayers(
			[]string{vaultlayer.VaultLayerSlug},
			middlewares.ParseFromCobraCommand(cmd, parameters.WithParseStepSource("cobra")),
			middlewares.GatherFlagsFromViper(parameters.WithParseStepSource("viper")),
			middlewares.SetFromDefaults(parameters.WithParseStepSource("defaults")),
		),
	}

	mw_ = append(mw_,
		middlewares.GatherFlagsFromViper(parameters.WithParseStepSource("viper")),
		middlewares.SetFromDefaults(parameters.WithParseStepSource("defaults")),
	)

	return mw_, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "text-manipulation",
		Short:   "Run configurable text transformation pipelines over records",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			err := logging.InitLoggerFromViper()
			cobra.CheckErr(err)
		},
	}

	err := clay.InitViper("text-manipulation", rootCmd)
	cobra.CheckErr(err)

	hs := help.NewHelpSystem()
	_ = appdoc.AddDocToHelpSystem(hs)
	help_cmd.SetupCobraRootCommand(hs, rootCmd)

	opts := []cli.CobraOption{
		cli.WithParserConfig(cli.CobraParserConfig{
			MiddlewaresFunc: getMiddlewares,
		}),
	}

	constructors := []func() (gcmds.Command, error){
		func() (gcmds.Command, error) { return appcmds.NewRunCommand() },
		func() (gcmds.Command, error) { return appcmds.NewApplyCommand() },
		func() (gcmds.Command, error) { return appcmds.NewValidateCommand() },
		func() (gcmds.Command, error) { return appcmds.NewCharsetsCommand() },
		func() (gcmds.Command, error) { return appcmds.NewListCommand() },
	}
	for _, newCmd := range constructors {
		c, err := newCmd()
		cobra.CheckErr(err)
		cmd, err := cli.BuildCobraCommand(c, opts...)
		cobra.CheckErr(err)
		rootCmd.AddCommand(cmd)
	}

	cobra.CheckErr(rootCmd.Execute())
}
