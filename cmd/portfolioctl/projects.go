package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/udayip/portfolio/project"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage portfolio projects",
		Long: `List and edit the project collection. Every edit fetches the full
collection, changes it locally, and writes the whole collection back.`,
	}

	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsAddCmd())
	cmd.AddCommand(newProjectsUpdateCmd())
	cmd.AddCommand(newProjectsRemoveCmd())
	return cmd
}

func printProjects(p *printer, projects []project.Project) {
	if len(projects) == 0 {
		p.Info("No projects found.")
		return
	}

	headers := []string{"ID", "NAME", "URL", "DESCRIPTION"}
	rows := make([][]string, len(projects))
	for i, pr := range projects {
		rows[i] = []string{pr.ID, pr.Name, pr.URL, truncate(pr.Description, 40)}
	}
	p.Table(headers, rows)
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())

			projects, raw, err := getClient().GetProjects(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				p.JSON(raw)
				return nil
			}
			printProjects(p, projects)
			return nil
		},
	}
}

func newProjectsAddCmd() *cobra.Command {
	var name, url, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())

			item := project.Project{
				ID:          project.NewID(time.Now()),
				Name:        name,
				URL:         url,
				Description: description,
			}
			if err := item.Validate(); err != nil {
				return err
			}

			client := getClient()
			projects, _, err := client.GetProjects(cmd.Context())
			if err != nil {
				return err
			}
			if project.Find(projects, item.ID) >= 0 {
				return fmt.Errorf("project %s already exists, try again", item.ID)
			}

			if err := client.PutProjects(cmd.Context(), project.Upsert(projects, item)); err != nil {
				return err
			}

			if flagJSON {
				p.JSON(mustJSON(item))
				return nil
			}
			p.Success("Project %q added (id %s)", item.Name, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (required)")
	cmd.Flags().StringVar(&url, "url", "", "Project URL (required)")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("url")
	return cmd
}

func newProjectsUpdateCmd() *cobra.Command {
	var name, url, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())
			id := args[0]

			var setters []project.UpdateSetter
			if cmd.Flags().Changed("name") {
				setters = append(setters, project.SetName(name))
			}
			if cmd.Flags().Changed("url") {
				setters = append(setters, project.SetURL(url))
			}
			if cmd.Flags().Changed("description") {
				setters = append(setters, project.SetDescription(description))
			}
			if len(setters) == 0 {
				return fmt.Errorf("nothing to update: pass --name, --url or --description")
			}

			client := getClient()
			projects, _, err := client.GetProjects(cmd.Context())
			if err != nil {
				return err
			}

			updated, err := project.Apply(projects, id, setters...)
			if err != nil {
				return fmt.Errorf("project %s: %w", id, err)
			}
			if err := client.PutProjects(cmd.Context(), updated); err != nil {
				return err
			}

			if flagJSON {
				p.JSON(mustJSON(updated[project.Find(updated, id)]))
				return nil
			}
			p.Success("Project %s updated", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&url, "url", "", "New project URL")
	cmd.Flags().StringVar(&description, "description", "", "New project description")
	return cmd
}

func newProjectsRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())
			id := args[0]

			client := getClient()
			projects, _, err := client.GetProjects(cmd.Context())
			if err != nil {
				return err
			}

			remaining, err := project.Remove(projects, id)
			if err != nil {
				return fmt.Errorf("project %s: %w", id, err)
			}

			prompt := fmt.Sprintf("Remove project %s (%s)?", id, projects[project.Find(projects, id)].Name)
			if !confirmAction(cmd.InOrStdin(), cmd.OutOrStdout(), prompt, yes) {
				p.Warning("Cancelled.")
				return nil
			}

			if err := client.PutProjects(cmd.Context(), remaining); err != nil {
				return err
			}
			p.Success("Project %s removed", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
