package cli

import (
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

type newOpts struct {
	name        string
	description string
	force       bool
}

// newCommand creates the `new` command that writes an empty project file.
func (c *CLI) newCommand() *cobra.Command {
	var opts newOpts

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty skill project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", workflow.DefaultProjectName, "project name")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "project description")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing file")

	return cmd
}

func runNew(cmd *cobra.Command, path string, opts newOpts) error {
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}

	ed := workflow.NewEditor()
	ed.SetName(opts.name)
	ed.SetDescription(opts.description)
	if err := saveProject(path, ed.Snapshot()); err != nil {
		return err
	}

	loggerFromContext(cmd.Context()).Debug("created project", "file", path)
	printSuccess("Created %s", StyleHighlight.Render(opts.name))
	printFile(path)
	printNextStep("Add a node", "skillflow node add "+path+" input")
	return nil
}
