package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/service"
)

// opener yields an admin service bound to a store plus its release func.
type opener func(ctx context.Context) (*service.AdminService, func(), error)

// The CLI has no JWT to verify, so an unset secret must not block it.
func cliLookuper() envconfig.Lookuper {
	return envconfig.MultiLookuper(
		envconfig.OsLookuper(),
		envconfig.MapLookuper(map[string]string{"JWT_SECRET": "marketctl"}),
	)
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Operator tools for the LibyaParts marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// withAdmin opens the store for the duration of a single command.
	withAdmin := func(run func(cmd *cobra.Command, admin *service.AdminService, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			admin, release, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()
			return run(cmd, admin, args)
		}
	}

	adminCmd := &cobra.Command{Use: "admin", Short: "Manage the admin account"}
	adminCmd.AddCommand(&cobra.Command{
		Use:   "grant <email>",
		Short: "Make the user with this email the only admin",
		Args:  cobra.ExactArgs(1),
		RunE: withAdmin(func(cmd *cobra.Command, admin *service.AdminService, args []string) error {
			u, err := admin.GrantAdmin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now the admin\n", u.Email, u.ID)
			return nil
		}),
	})

	usersCmd := &cobra.Command{Use: "users", Short: "Inspect and review accounts"}

	var role string
	var pendingOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users, newest first",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(cmd *cobra.Command, admin *service.AdminService, _ []string) error {
			users, err := admin.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			var shown []*domain.User
			for _, u := range users {
				if role != "" && u.Role != role {
					continue
				}
				if pendingOnly && !u.PendingApproval() {
					continue
				}
				shown = append(shown, u)
			}
			renderUsers(cmd.OutOrStdout(), shown)
			return nil
		}),
	}
	listCmd.Flags().StringVar(&role, "role", "", "only show this role (customer or merchant)")
	listCmd.Flags().BoolVar(&pendingOnly, "pending", false, "only show merchants awaiting approval")

	setApproval := func(use, short string, approved bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <user-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: withAdmin(func(cmd *cobra.Command, admin *service.AdminService, args []string) error {
				u, err := admin.SetApproval(cmd.Context(), args[0], approved)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s approved=%t\n", u.Email, u.IsApproved)
				return nil
			}),
		}
	}
	usersCmd.AddCommand(listCmd,
		setApproval("approve", "Approve a merchant", true),
		setApproval("reject", "Revoke a merchant's approval", false),
	)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print platform counters",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(cmd *cobra.Command, admin *service.AdminService, _ []string) error {
			st, err := admin.Stats(cmd.Context())
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Counter", "Value"})
			t.AppendRows([]table.Row{
				{"users", st.TotalUsers},
				{"customers", st.TotalCustomers},
				{"merchants approved", st.ApprovedMerchants},
				{"merchants pending", st.PendingMerchants},
				{"parts", st.TotalParts},
				{"requests", st.TotalRequests},
			})
			t.Render()
			return nil
		}),
	}

	root.AddCommand(adminCmd, usersCmd, statsCmd)
	return root
}

func renderUsers(w io.Writer, users []*domain.User) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Email", "Name", "Role", "Flags", "Created"})
	for _, u := range users {
		var flags []string
		if u.IsAdmin {
			flags = append(flags, "admin")
		}
		if u.PendingApproval() {
			flags = append(flags, "pending")
		}
		t.AppendRow(table.Row{u.ID, u.Email, u.Name, u.Role, strings.Join(flags, ","), u.CreatedAt.Format(time.DateOnly)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "total", len(users)})
	t.Render()
}
