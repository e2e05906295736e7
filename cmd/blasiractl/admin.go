package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/amasbarry223/blasira-admin/internal/admin"
	"github.com/amasbarry223/blasira-admin/internal/apiclient"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "stats",
		Short:       "Show dashboard statistics",
		Args:        cobra.NoArgs,
		Annotations: route("/admin/dashboard"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.guarded(cmd, func() error {
				stats, err := c.app.admin.DashboardStats(cmd.Context())
				if err != nil {
					return err
				}
				if c.opts.jsonOutput {
					return printJSON(c.out, stats)
				}
				return formatStats(c.out, stats)
			})
		},
	}
}

func formatStats(w io.Writer, s admin.DashboardStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Utilisateurs\t%d\n", s.TotalUsers)
	fmt.Fprintf(tw, "Conducteurs\t%d\n", s.TotalDrivers)
	fmt.Fprintf(tw, "Trajets actifs\t%d\n", s.ActiveTrips)
	fmt.Fprintf(tw, "Réservations\t%d\n", s.TotalBookings)
	fmt.Fprintf(tw, "Vérifications en attente\t%d\n", s.PendingVerifications)
	fmt.Fprintf(tw, "Tickets ouverts\t%d\n", s.OpenTickets)
	fmt.Fprintf(tw, "Revenus\t%.0f FCFA\n", s.Revenue)
	return tw.Flush()
}

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	var opts admin.ListOptions
	list := &cobra.Command{
		Use:         "list",
		Short:       "List users",
		Args:        cobra.NoArgs,
		Annotations: route("/admin/users"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.guarded(cmd, func() error {
				users, err := c.app.admin.ListUsers(cmd.Context(), opts)
				if err != nil {
					return err
				}
				if c.opts.jsonOutput {
					return printJSON(c.out, users)
				}
				return formatUsers(c.out, users)
			})
		},
	}
	list.Flags().IntVar(&opts.Page, "page", 0, "page number")
	list.Flags().IntVar(&opts.Size, "size", 0, "page size")
	list.Flags().StringVar(&opts.Search, "search", "", "search by name or phone")

	get := &cobra.Command{
		Use:         "get ID",
		Short:       "Show one user",
		Args:        cobra.ExactArgs(1),
		Annotations: route("/admin/users"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.guarded(cmd, func() error {
				user, err := c.app.admin.GetUser(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printJSON(c.out, user)
			})
		},
	}

	var (
		firstName, lastName, email, role string
		active                           bool
	)
	update := &cobra.Command{
		Use:         "update ID",
		Short:       "Update a user",
		Args:        cobra.ExactArgs(1),
		Annotations: route("/admin/users"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req admin.UpdateUserRequest
			flags := cmd.Flags()
			if flags.Changed("first-name") {
				req.FirstName = &firstName
			}
			if flags.Changed("last-name") {
				req.LastName = &lastName
			}
			if flags.Changed("email") {
				req.Email = &email
			}
			if flags.Changed("role") {
				r := admin.Role(strings.ToUpper(role))
				req.Role = &r
			}
			if flags.Changed("active") {
				req.Active = &active
			}

			return c.guarded(cmd, func() error {
				user, err := c.app.admin.UpdateUser(cmd.Context(), id, req)
				if err != nil {
					return err
				}
				return printJSON(c.out, user)
			})
		},
	}
	update.Flags().StringVar(&firstName, "first-name", "", "first name")
	update.Flags().StringVar(&lastName, "last-name", "", "last name")
	update.Flags().StringVar(&email, "email", "", "email address")
	update.Flags().StringVar(&role, "role", "", "role (ADMIN, DRIVER, PASSENGER)")
	update.Flags().BoolVar(&active, "active", true, "account enabled")

	cmd.AddCommand(list, get, update)
	return cmd
}

func formatUsers(w io.Writer, users []admin.User) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOM\tTÉLÉPHONE\tRÔLE\tACTIF")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%t\n", u.ID, u.FirstName, u.LastName, u.Phone, u.Role, u.Active)
	}
	return tw.Flush()
}

func newDocumentsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Review uploaded documents",
	}

	var opts admin.ListOptions
	list := &cobra.Command{
		Use:         "list",
		Short:       "List documents",
		Args:        cobra.NoArgs,
		Annotations: route("/admin/documents"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.guarded(cmd, func() error {
				docs, err := c.app.admin.ListDocuments(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return printJSON(c.out, docs)
			})
		},
	}
	list.Flags().StringVar(&opts.Status, "status", "", "filter by status (PENDING, APPROVED, REJECTED)")

	var reason string
	setStatus := &cobra.Command{
		Use:         "set-status ID STATUS",
		Short:       "Change the status of a document",
		Args:        cobra.ExactArgs(2),
		Annotations: route("/admin/documents"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			update := admin.DocumentStatusUpdate{
				Status: admin.DocumentStatus(strings.ToUpper(args[1])),
				Reason: reason,
			}
			return c.guarded(cmd, func() error {
				doc, err := c.app.admin.UpdateDocumentStatus(cmd.Context(), id, update)
				if err != nil {
					return err
				}
				return printJSON(c.out, doc)
			})
		},
	}
	setStatus.Flags().StringVar(&reason, "reason", "", "reason shown to the user")

	cmd.AddCommand(list, setStatus)
	return cmd
}

func newVerificationsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verifications",
		Aliases: []string{"verify"},
		Short:   "Approve or reject identity verifications",
	}

	approve := &cobra.Command{
		Use:         "approve ID",
		Short:       "Approve a verification",
		Args:        cobra.ExactArgs(1),
		Annotations: route("/admin/verifications"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.guarded(cmd, func() error {
				v, err := c.app.admin.ApproveVerification(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printJSON(c.out, v)
			})
		},
	}

	var reason string
	reject := &cobra.Command{
		Use:         "reject ID",
		Short:       "Reject a verification",
		Args:        cobra.ExactArgs(1),
		Annotations: route("/admin/verifications"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.guarded(cmd, func() error {
				v, err := c.app.admin.RejectVerification(cmd.Context(), id, reason)
				if err != nil {
					return err
				}
				return printJSON(c.out, v)
			})
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "reason shown to the user")

	cmd.AddCommand(approve, reject)
	return cmd
}

func newResourceCmd(c *cli) *cobra.Command {
	var (
		data string
		opts admin.ListOptions
	)

	cmd := &cobra.Command{
		Use:   "resource ENTITY ACTION [ID]",
		Short: "Call a REST resource (trips, bookings, vehicles, ...)",
		Long: `Call a conventional REST resource of the back office.

ACTION is one of list, get, create, update, delete. create and update read the record from --data.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.app.admin.Resource(args[0])
			if err != nil {
				return fmt.Errorf("%w (disponibles : %s)", err, strings.Join(c.app.admin.Entities(), ", "))
			}
			id := ""
			if len(args) == 3 {
				id = args[2]
			}

			return c.app.guarded(cmd.Context(), r.Path(), func() error {
				return c.runResource(cmd.Context(), c.out, r, args[1], id, data, opts)
			})
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON record for create and update")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number for list")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "page size for list")
	cmd.Flags().StringVar(&opts.Status, "status", "", "status filter for list")
	return cmd
}

func (c *cli) runResource(ctx context.Context, w io.Writer, r *admin.Resource[admin.Record], action, id, data string, opts admin.ListOptions) error {
	decode := func() (admin.Record, error) {
		var rec admin.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("--data must be a JSON object: %w", err)
		}
		return rec, nil
	}

	switch action {
	case "list":
		items, err := r.List(ctx, opts)
		if err != nil {
			return err
		}
		return printJSON(w, items)
	case "get":
		item, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(w, item)
	case "create":
		rec, err := decode()
		if err != nil {
			return err
		}
		item, err := r.Create(ctx, rec)
		if err != nil {
			return err
		}
		return printJSON(w, item)
	case "update":
		rec, err := decode()
		if err != nil {
			return err
		}
		item, err := r.Update(ctx, id, rec)
		if err != nil {
			return err
		}
		return printJSON(w, item)
	case "delete":
		if err := r.Remove(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(w, "Supprimé.")
		return nil
	default:
		return fmt.Errorf("unknown action %q (list, get, create, update, delete)", action)
	}
}

func newRequestCmd(c *cli) *cobra.Command {
	var (
		data      string
		anonymous bool
	)

	cmd := &cobra.Command{
		Use:         "request METHOD ENDPOINT",
		Short:       "Send a raw request through the secure API client",
		Args:        cobra.ExactArgs(2),
		Annotations: route("/admin"),
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func() error {
				return c.runRequest(cmd.Context(), c.out, strings.ToUpper(args[0]), args[1], data, anonymous)
			}
			if anonymous {
				return run()
			}
			return c.guarded(cmd, run)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON request body")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "send without the Authorization header")
	return cmd
}

func (c *cli) runRequest(ctx context.Context, w io.Writer, method, endpoint, data string, anonymous bool) error {
	var body any
	if data != "" {
		body = json.RawMessage(data)
	}

	var opts []apiclient.Option
	if anonymous {
		opts = append(opts, apiclient.WithoutAuth())
	}

	resp, err := c.app.client.Do(ctx, method, endpoint, body, opts...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		fmt.Fprintln(w, resp.Status)
		return nil
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return printJSON(w, payload)
}
