// Command emsadmin is a terminal client for the EMS backend. It keeps the
// operator session in a local credential store, restores it on every
// invocation, and exposes the same collections the web admin shows.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/emstack/emsgate"
	"github.com/emstack/emsgate/api"
	"github.com/emstack/emsgate/internal/rate"
	"github.com/emstack/emsgate/report"
)

var (
	cfgFile   string
	baseURL   string
	emailFlag string
	passFlag  string
)

// loginLimiter throttles repeated login attempts per email within one
// process. Mostly relevant to scripted use.
var loginLimiter = rate.New(2*time.Second, 3)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func execute() error {
	rootCmd := &cobra.Command{
		Use:           "emsadmin",
		Short:         "EMS admin terminal client",
		Long:          "emsadmin signs in to the EMS backend, keeps the session across invocations, and reads the admin collections.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/emsadmin/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL override")

	rootCmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newDashboardCmd(),
		newListCmd(),
		newGetCmd(),
		newDeleteCmd(),
		newInitCmd(),
	)

	return rootCmd.Execute()
}

func buildApp() (*app, error) {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return newApp(cfg)
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if emailFlag == "" || passFlag == "" {
				return errors.New("both --email and --password are required")
			}
			if !loginLimiter.Allow(emailFlag) {
				return errors.New("too many login attempts; wait a moment")
			}

			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			session, err := a.client.Auth().Login(ctx, api.Credentials{
				Email:    emailFlag,
				Password: passFlag,
			})
			if err != nil {
				return err
			}

			user, err := a.profileFor(ctx, session)
			if err != nil {
				return err
			}
			if err := a.controller.Login(ctx, session.Token, user); err != nil {
				return err
			}

			fmt.Printf("signed in as %s (%s)\n", user.DisplayName(), emsgate.DisplayRole(user.Role))
			return nil
		},
	}
	cmd.Flags().StringVar(&emailFlag, "email", "", "account email")
	cmd.Flags().StringVar(&passFlag, "password", "", "account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.controller.LogoutLocal(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the restored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.restore(ctx); err != nil {
				return err
			}
			user := a.controller.CurrentUser()
			if user == nil {
				return errors.New("not signed in; run 'emsadmin login'")
			}

			fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
			fmt.Printf("role: %s\n", emsgate.DisplayRole(user.Role))
			return nil
		},
	}
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Render the dashboard figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.restore(ctx); err != nil {
				return err
			}
			if !a.controller.IsAuthenticated() {
				return errors.New("not signed in; run 'emsadmin login'")
			}

			dash, err := report.Build(ctx, a.client)
			if err != nil {
				return err
			}
			printDashboard(dash)
			return nil
		},
	}
}

func printDashboard(d *report.Dashboard) {
	fmt.Printf("customers: %d  products: %d  orders: %d  invoices: %d\n",
		d.Summary.Customers, d.Summary.Products, d.Summary.Orders, d.Summary.Invoices)
	fmt.Printf("total revenue: %.2f  avg order: %.2f\n\n",
		d.Summary.TotalRevenue, d.Summary.AvgOrderValue)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "RECENT ORDERS")
	fmt.Fprintln(w, "ID\tDATE\tTOTAL")
	for _, o := range d.RecentOrders {
		fmt.Fprintf(w, "%d\t%s\t%.2f\n", o.ID, o.Date.Format("2006-01-02"), o.Total)
	}

	fmt.Fprintln(w, "\nORDERS BY CUSTOMER")
	fmt.Fprintln(w, "NAME\tORDERS\tREVENUE")
	for _, c := range d.OrdersByCustomer {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", c.Name, c.Orders, c.Revenue)
	}

	fmt.Fprintln(w, "\nREVENUE TREND")
	fmt.Fprintln(w, "DATE\tREVENUE")
	for _, p := range d.RevenueTrend {
		fmt.Fprintf(w, "%s\t%.2f\n", p.Date, p.Revenue)
	}

	_ = w.Flush()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list <collection>",
		Short:     "List one backend collection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: collectionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.restore(ctx); err != nil {
				return err
			}
			if !a.controller.IsAuthenticated() {
				return errors.New("not signed in; run 'emsadmin login'")
			}

			return printCollection(ctx, a.client, args[0])
		},
	}
}

func printCollection(ctx context.Context, client *api.Client, name string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	switch name {
	case "customers":
		items, err := client.Customers().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tEMAIL")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", it.ID, it.Name, it.Email)
		}
	case "products":
		items, err := client.Products().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tPRICE")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s\t%.2f\n", it.ID, it.Name, it.Price)
		}
	case "orders":
		items, err := client.Orders().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tDATE\tTOTAL")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s\t%.2f\n", it.ID, it.Date.Format("2006-01-02"), it.Total)
		}
	case "invoices":
		items, err := client.Invoices().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tORDER\tDATE\tTOTAL")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\n", it.ID, it.OrderID, it.Date.Format("2006-01-02"), it.Total)
		}
	case "employees":
		items, err := client.Employees().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tDEPARTMENT")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s %s\t%s\t%d\n", it.ID, it.FirstName, it.LastName, it.Email, it.DepartmentID)
		}
	case "departments":
		items, err := client.Departments().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", it.ID, it.Name, it.Description)
		}
	case "skills":
		items, err := client.Skills().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\n", it.ID, it.Name, it.Description)
		}
	case "dependents":
		items, err := client.Dependents().List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tNAME\tRELATIONSHIP\tEMPLOYEE")
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", it.ID, it.Name, it.Relationship, it.EmployeeID)
		}
	default:
		return fmt.Errorf("unknown collection %q", name)
	}
	return nil
}

var collectionNames = []string{"customers", "products", "orders", "invoices", "employees", "departments", "skills", "dependents"}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <collection> <id>",
		Short:     "Fetch one record by id",
		Args:      cobra.ExactArgs(2),
		ValidArgs: collectionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}

			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.restore(ctx); err != nil {
				return err
			}
			if !a.controller.IsAuthenticated() {
				return errors.New("not signed in; run 'emsadmin login'")
			}

			record, err := fetchRecord(ctx, a.client, args[0], id)
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(encoded))
			return nil
		},
	}
}

func fetchRecord(ctx context.Context, client *api.Client, name string, id int64) (any, error) {
	switch name {
	case "customers":
		return client.Customers().Get(ctx, id)
	case "products":
		return client.Products().Get(ctx, id)
	case "orders":
		return client.Orders().Get(ctx, id)
	case "invoices":
		return client.Invoices().Get(ctx, id)
	case "employees":
		return client.Employees().Get(ctx, id)
	case "departments":
		return client.Departments().Get(ctx, id)
	case "skills":
		return client.Skills().Get(ctx, id)
	case "dependents":
		return client.Dependents().Get(ctx, id)
	default:
		return nil, fmt.Errorf("unknown collection %q", name)
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "delete <collection> <id>",
		Short:     "Delete one record by id",
		Args:      cobra.ExactArgs(2),
		ValidArgs: collectionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}

			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.restore(ctx); err != nil {
				return err
			}
			if !a.controller.IsAuthenticated() {
				return errors.New("not signed in; run 'emsadmin login'")
			}

			if err := deleteRecord(ctx, a.client, args[0], id); err != nil {
				return err
			}
			fmt.Printf("deleted %s/%d\n", args[0], id)
			return nil
		},
	}
}

func deleteRecord(ctx context.Context, client *api.Client, name string, id int64) error {
	switch name {
	case "customers":
		return client.Customers().Delete(ctx, id)
	case "products":
		return client.Products().Delete(ctx, id)
	case "orders":
		return client.Orders().Delete(ctx, id)
	case "invoices":
		return client.Invoices().Delete(ctx, id)
	case "employees":
		return client.Employees().Delete(ctx, id)
	case "departments":
		return client.Departments().Delete(ctx, id)
	case "skills":
		return client.Skills().Delete(ctx, id)
	case "dependents":
		return client.Dependents().Delete(ctx, id)
	default:
		return fmt.Errorf("unknown collection %q", name)
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			cfg.CredentialsDir = defaultCredentialsDir()
			if baseURL != "" {
				cfg.BaseURL = baseURL
			}
			if err := saveConfig(cfgFile, cfg); err != nil {
				return err
			}
			path := cfgFile
			if path == "" {
				path = defaultConfigPath()
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}
