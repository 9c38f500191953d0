package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	usersCmd = &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	promoteCmd = &cobra.Command{
		Use:   "promote [username]",
		Short: "Grant admin rights",
		Args:  cobra.ExactArgs(1),
		RunE:  setAdmin(true),
	}

	demoteCmd = &cobra.Command{
		Use:   "demote [username]",
		Short: "Revoke admin rights",
		Args:  cobra.ExactArgs(1),
		RunE:  setAdmin(false),
	}

	listAdminsCmd = &cobra.Command{
		Use:   "list-admins",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE:  runListAdmins,
	}

	deleteUserCmd = &cobra.Command{
		Use:   "delete [username]",
		Short: "Delete an account with its posts, comments and follows",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteUser,
	}
)

func init() {
	usersCmd.AddCommand(promoteCmd, demoteCmd, listAdminsCmd, deleteUserCmd)
}

func setAdmin(admin bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		user, err := rt.users.SetAdmin(cmd.Context(), args[0], admin)
		if err != nil {
			return err
		}
		verb := "promoted"
		if !admin {
			verb = "demoted"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (id %d)\n", verb, user.Username, user.ID)
		return nil
	}
}

func runListAdmins(cmd *cobra.Command, _ []string) error {
	admins, err := rt.users.ListAdmins(cmd.Context())
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no admins")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL")
	for _, a := range admins {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.Username, a.Email)
	}
	return w.Flush()
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	if err := rt.users.DeleteUser(cmd.Context(), args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
