package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"order-admin/internal/config"
	"order-admin/internal/domain"
	mmysql "order-admin/internal/infra/mysql"
	"order-admin/internal/infra/sanity"
	"order-admin/internal/patterns"
	"order-admin/internal/repository/content"
	mysqlrepo "order-admin/internal/repository/mysql"
	"order-admin/internal/services"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// orderServiceFactory is replaced in tests.
var orderServiceFactory = func() (*services.OrderService, error) {
	cfg, err := config.Load(config.SectionSanity)
	if err != nil {
		return nil, err
	}

	breaker := patterns.NewCircuitBreaker("sanity", "order-admin-cli", sanity.BreakerSettings())
	store := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.Sanity.ProjectID,
		Dataset:    cfg.Sanity.Dataset,
		APIVersion: cfg.Sanity.APIVersion,
		APIHost:    cfg.Sanity.APIHost,
		Token:      cfg.Sanity.Token,
		Timeout:    cfg.Sanity.Timeout,
	}, breaker)
	return services.NewOrderService(content.NewOrderRepository(store)), nil
}

var authServiceFactory = func() (*services.AuthService, error) {
	cfg, err := config.Load(config.SectionMySQL)
	if err != nil {
		return nil, err
	}
	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	return services.NewAuthService(mysqlrepo.NewOperatorRepository(db)), nil
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "order-admin",
		Short:         "Manage customer orders from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at info level")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.InfoLevel)
		}
	}

	root.AddCommand(
		newAddOperatorCmd(),
		newOrdersCmd(),
		newSetStatusCmd(),
		newDeleteCmd(),
	)
	return root
}

func newAddOperatorCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "add-operator",
		Short: "Create a dashboard login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := authServiceFactory()
			if err != nil {
				return err
			}
			op, err := auth.CreateOperator(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Operator '%s' created successfully.\n", op.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newOrdersCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := domain.ParseFilter(status)
			if err != nil {
				return err
			}
			svc, _, err := loadOrders(cmd)
			if err != nil {
				return err
			}
			printOrders(cmd.OutOrStdout(), svc.Filter(filter))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "All, pending, dispatched, success or completed")
	return cmd
}

func newSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Change the status of one order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, n, err := loadOrders(cmd)
			if err != nil {
				return err
			}
			return svc.ChangeStatus(cmd.Context(), n, args[0], domain.OrderStatus(args[1]))
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <order-id>",
		Short: "Delete one order after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, n, err := loadOrders(cmd)
			if err != nil {
				return err
			}
			n.assumeYes = yes
			return svc.Delete(cmd.Context(), n, args[0])
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func loadOrders(cmd *cobra.Command) (*services.OrderService, *terminalNotifier, error) {
	svc, err := orderServiceFactory()
	if err != nil {
		return nil, nil, err
	}

	n := newTerminalNotifier(cmd.InOrStdin(), cmd.OutOrStdout())
	if err := svc.Load(cmd.Context(), n); err != nil {
		return nil, nil, err
	}
	return svc, n, nil
}

func printOrders(w io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tORDER\tCUSTOMER\tCITY\tDATE\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		items := 0
		for _, li := range o.Products {
			items += li.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%.2f\t%s\n",
			o.ID, o.OrderNumber, o.CustomerName, o.City, o.OrderDate, items, o.TotalPrice, o.Status)
	}
	tw.Flush()
}
