// internal/adapters/in/cli/commands.go
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	httpout "storefront/internal/adapters/out/http"
	"storefront/internal/application/checkout"
	authdom "storefront/internal/domain/auth"
	"storefront/internal/domain/common"
)

// AppFactory builds the App once flags are parsed.
type AppFactory func(cmd *cobra.Command) (*App, error)

// DefaultAppFactory loads the viper config and opens the session file.
func DefaultAppFactory(cmd *cobra.Command) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if u, _ := cmd.Flags().GetString("api-url"); strings.TrimSpace(u) != "" {
		cfg.APIURL = u
	}
	return NewApp(cfg, cmd.OutOrStdout())
}

// NewRootCommand returns the storefront command tree.
func NewRootCommand(factory AppFactory) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse your cart and check out from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := factory(cmd)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app != nil {
				app.Close()
			}
		},
	}
	root.PersistentFlags().String("api-url", "", "API base URL (overrides config)")

	get := func() *App { return app }
	root.AddCommand(
		newLoginCmd(get),
		newRegisterCmd(get),
		newLogoutCmd(get),
		newWhoamiCmd(get),
		newForgotPasswordCmd(get),
		newProfileCmd(get),
		newCartCmd(get),
		newCheckoutCmd(get),
		newOrdersCmd(get),
		newReceiptCmd(get),
	)
	return root
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, n := range names {
		if v, _ := cmd.Flags().GetString(n); strings.TrimSpace(v) == "" {
			missing = append(missing, "--"+n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	return nil
}

// userMessage prefers the server's rejection text.
func userMessage(err error) error {
	var apiErr *httpout.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}

// ------------------------------------------------------------
// account
// ------------------------------------------------------------

func newLoginCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "email", "password"); err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			a := app()
			rec, err := a.API.Login(cmd.Context(), email, password)
			if err != nil {
				return userMessage(err)
			}
			a.Auth.Set(rec)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", rec.User.Name, rec.Email())
			fmt.Fprintln(cmd.OutOrStdout(), cartBadge(a.Cart.Count()))
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	return cmd
}

func newRegisterCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "name", "email", "password", "phone", "address", "answer"); err != nil {
				return err
			}
			f := cmd.Flags()
			in := httpout.RegisterInput{}
			in.Name, _ = f.GetString("name")
			in.Email, _ = f.GetString("email")
			in.Password, _ = f.GetString("password")
			in.Phone, _ = f.GetString("phone")
			in.Address, _ = f.GetString("address")
			in.Answer, _ = f.GetString("answer")

			u, err := app().API.Register(cmd.Context(), in)
			if err != nil {
				return userMessage(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Please log in.\n", u.Email)
			return nil
		},
	}
	for _, n := range []string{"name", "email", "password", "phone", "address"} {
		cmd.Flags().String(n, "", n)
	}
	cmd.Flags().String("answer", "", "security answer used to reset the password")
	return cmd
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session on this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app().Auth.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			rec := a.Auth.Get()
			if !rec.Authenticated() || rec.User == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "guest")
				return nil
			}
			role := "user"
			if rec.IsAdmin() {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", rec.User.Name, rec.Email(), role)
			return nil
		},
	}
}

func newForgotPasswordCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset the password with the security answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "email", "answer", "new-password"); err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			answer, _ := cmd.Flags().GetString("answer")
			pw, _ := cmd.Flags().GetString("new-password")
			if err := app().API.ForgotPassword(cmd.Context(), email, answer, pw); err != nil {
				return userMessage(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password reset. Please log in.")
			return nil
		},
	}
	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("answer", "", "security answer")
	cmd.Flags().String("new-password", "", "new password")
	return cmd
}

func newProfileCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update name, phone, address or password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			in := httpout.ProfileInput{}
			in.Name, _ = f.GetString("name")
			in.Phone, _ = f.GetString("phone")
			in.Address, _ = f.GetString("address")
			in.Password, _ = f.GetString("password")

			a := app()
			u, err := a.API.UpdateProfile(cmd.Context(), in)
			if err != nil {
				return userMessage(err)
			}
			a.Auth.Update(func(rec authdom.Record) authdom.Record {
				if rec.User != nil {
					cp := u
					rec.User = &cp
				}
				return rec
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s\n", u.Email)
			return nil
		},
	}
	for _, n := range []string{"name", "phone", "address", "password"} {
		cmd.Flags().String(n, "", "new "+n)
	}
	return cmd
}

// ------------------------------------------------------------
// cart
// ------------------------------------------------------------

func newCartCmd(app func() *App) *cobra.Command {
	cart := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart of the logged-in account",
	}

	cart.AddCommand(&cobra.Command{
		Use:   "add <productId>...",
		Short: "Add products (repeat an id for more than one)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			for _, id := range args {
				a.Cart.Add(id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cartBadge(a.Cart.Count()))
			if a.Cart.Email() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("guest cart is not saved; log in to keep it"))
			}
			return nil
		},
	})

	cart.AddCommand(&cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove one occurrence of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			a.Cart.Remove(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), cartBadge(a.Cart.Count()))
			return nil
		},
	})

	cart.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List cart items with live prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			c := a.Coordinator("")
			defer c.Close()
			if err := c.ResolveCart(cmd.Context()); err != nil {
				return fmt.Errorf("could not load products: %w", userMessage(err))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCart(a.Cart.Email(), c.Items(), c.Total()))
			return nil
		},
	})
	return cart
}

// ------------------------------------------------------------
// checkout / orders
// ------------------------------------------------------------

func newCheckoutCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Pay for the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			nonce, _ := cmd.Flags().GetString("nonce")
			a := app()
			ctx := cmd.Context()

			c := a.Coordinator(nonce)
			defer c.Close()

			if err := c.ResolveCart(ctx); err != nil {
				return fmt.Errorf("could not load products: %w", userMessage(err))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCart(a.Cart.Email(), c.Items(), c.Total()))
			if len(c.Items()) == 0 {
				return nil
			}
			if !a.Auth.Get().Authenticated() {
				return errors.New("please login to checkout")
			}

			if err := c.Start(ctx); err != nil {
				if errors.Is(err, checkout.ErrTokenUnavailable) {
					return errors.New("payment is currently unavailable")
				}
				return err
			}
			if err := c.Pay(ctx); err != nil {
				if httpout.IsStatus(err, http.StatusUnauthorized) {
					return errors.New("session expired, please log in again")
				}
				if errors.Is(err, checkout.ErrCartResolving) {
					return errors.New("your cart changed, review it and try again")
				}
				var pe *checkout.PaymentError
				if errors.As(err, &pe) || errors.Is(err, checkout.ErrNoNonce) {
					// already shown by the presenter
					return errors.New("payment not completed")
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("nonce", "", "payment method nonce (sandbox: fake-valid-nonce)")
	return cmd
}

func newOrdersCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := app().API.Orders(cmd.Context())
			if err != nil {
				return userMessage(err)
			}
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders yet")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ORDER", "STATUS", "DATE", "PAYMENT", "ITEMS", "TOTAL")
			for _, o := range orders {
				pay := "Failed"
				if o.Payment.Success {
					pay = "Success"
				}
				t.Row(o.ID, string(o.Status), o.CreatedAt.Format("2006-01-02"), pay,
					fmt.Sprint(len(o.ProductIDs)), common.FormatUSD(o.TotalCents()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newReceiptCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt <orderId>",
		Short: "Download the PDF receipt of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := app().API.Receipt(cmd.Context(), args[0])
			if err != nil {
				return userMessage(err)
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = "receipt-" + args[0] + ".pdf"
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", out, len(pdf))
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "output file")
	return cmd
}
