package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

type setOpts struct {
	name        string
	description string
}

// setCommand creates the `set` command that edits project settings.
func (c *CLI) setCommand() *cobra.Command {
	var opts setOpts

	cmd := &cobra.Command{
		Use:   "set <file>",
		Short: "Change the project name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changeName := cmd.Flags().Changed("name")
			changeDesc := cmd.Flags().Changed("description")
			if !changeName && !changeDesc {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "nothing to change (use --name or --description)")
			}

			p, err := editProject(args[0], workflow.NopNotifier{}, func(ed *workflow.Editor) error {
				if changeName {
					ed.SetName(opts.name)
				}
				if changeDesc {
					ed.SetDescription(opts.description)
				}
				return nil
			})
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("updated project", "file", args[0])
			printSuccess("Updated %s", StyleHighlight.Render(p.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "new project name")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "new project description")

	return cmd
}
