package main

import (
	"fmt"
	"text/tabwriter"

	"yatube/internal/service"

	"github.com/spf13/cobra"
)

var (
	groupTitle       string
	groupSlug        string
	groupDescription string

	groupsCmd = &cobra.Command{
		Use:   "groups",
		Short: "Manage groups",
	}

	groupCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		Args:  cobra.NoArgs,
		RunE:  runGroupCreate,
	}

	groupListCmd = &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE:  runGroupList,
	}

	groupDeleteCmd = &cobra.Command{
		Use:   "delete [slug]",
		Short: "Delete a group; its posts stay without a group",
		Args:  cobra.ExactArgs(1),
		RunE:  runGroupDelete,
	}
)

func init() {
	groupCreateCmd.Flags().StringVar(&groupTitle, "title", "", "group title")
	groupCreateCmd.Flags().StringVar(&groupSlug, "slug", "", "URL slug")
	groupCreateCmd.Flags().StringVarP(&groupDescription, "description", "d", "", "group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")
	groupsCmd.AddCommand(groupCreateCmd, groupListCmd, groupDeleteCmd)
}

func runGroupCreate(cmd *cobra.Command, _ []string) error {
	group, err := rt.groups.CreateGroup(cmd.Context(), service.CreateGroupInput{
		Slug:        groupSlug,
		Title:       groupTitle,
		Description: groupDescription,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created group %s (id %d)\n", group.Slug, group.ID)
	return nil
}

func runGroupList(cmd *cobra.Command, _ []string) error {
	groups, err := rt.groups.ListGroups(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSLUG\tTITLE")
	for _, g := range groups {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
	}
	return w.Flush()
}

func runGroupDelete(cmd *cobra.Command, args []string) error {
	if err := rt.groups.DeleteGroup(cmd.Context(), args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
	return nil
}
