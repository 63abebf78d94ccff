package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"job-tracker-service/internal/config"
	"job-tracker-service/internal/workflow"
)

var flowsFile string

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "Inspect flow definitions",
}

var flowsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate flow definitions and the task parameter mapping",
	Long: `Check loads the flow definitions (built-in, or overridden by --file) and
verifies that every task the tracker can create has parameters registered.`,
	Args: cobra.NoArgs,
	RunE: runFlowsCheck,
}

var flowsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective flow definitions as YAML",
	Args:  cobra.NoArgs,
	RunE:  runFlowsShow,
}

func init() {
	flowsCmd.PersistentFlags().StringVarP(&flowsFile, "file", "f", "", "flow definitions YAML file (default $FLOWS_CONFIG)")
	flowsCmd.AddCommand(flowsCheckCmd)
	flowsCmd.AddCommand(flowsShowCmd)
	rootCmd.AddCommand(flowsCmd)
}

// flowsPath resolves --file, falling back to FLOWS_CONFIG once .env is applied.
func flowsPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("file") {
		return flowsFile
	}
	return os.Getenv("FLOWS_CONFIG")
}

func runFlowsCheck(cmd *cobra.Command, _ []string) error {
	defs, err := config.LoadDefinitions(flowsPath(cmd))
	if err != nil {
		return err
	}
	params, err := workflow.DefaultParameters(defs)
	if err != nil {
		return err
	}
	if err := params.CheckCompleteness(defs); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, kind := range workflow.Kinds() {
		flow := defs.Flow(kind)
		fmt.Fprintf(w, "%-9s job types %v, sequence %v\n", kind, defs.JobTypesOf(kind), flow.Sequence)
	}
	fmt.Fprintln(w, "ok")
	return nil
}

func runFlowsShow(cmd *cobra.Command, _ []string) error {
	defs, err := config.LoadDefinitions(flowsPath(cmd))
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(defs)
}
