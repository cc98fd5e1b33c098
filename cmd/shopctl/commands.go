package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/techstore/pkg/apiclient"
	"github.com/Skotchmaster/techstore/pkg/userstore"
)

type app struct {
	api   *apiclient.Client
	store *userstore.Store
	out   io.Writer
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func parseStars(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid stars %q", s)
	}
	return n, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "shopctl",
		Short:        "Command-line client for the techstore API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := a.store.Token(cmd.Context())
			if err != nil {
				return err
			}
			a.api.SetToken(tok)
			return nil
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		productsCmd(a),
		categoriesCmd(a),
		productCmd(a),
		reviewsCmd(a),
		userReviewsCmd(a),
		reviewCmd(a),
		listCmd(a, userstore.Cart, "cart"),
		listCmd(a, userstore.Favorites, "favorites"),
		shopsCmd(a),
		nearestCmd(a),
	)
	return root
}

func registerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register NAME EMAIL PASSWORD",
		Short: "Create an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.api.Register(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "registered %s (id %d)\n", u.Email, u.ID)
			return nil
		},
	}
}

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login EMAIL PASSWORD",
		Short: "Log in and restore this user's cart and favorites",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if _, err := a.store.Login(cmd.Context(), s.Token); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "logged in as %s\n", s.Name)
			return nil
		},
	}
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the active lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Logout(cmd.Context()); err != nil {
				return err
			}
			a.api.SetToken("")
			fmt.Fprintln(a.out, "logged out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the id of the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.store.UserID(cmd.Context())
			if errors.Is(err, userstore.ErrNotLoggedIn) {
				fmt.Fprintln(a.out, "not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "user %d\n", id)
			return nil
		},
	}
}

func printProducts(w io.Writer, products []apiclient.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\n", p.ID, p.Name, p.Category, p.Price)
	}
	_ = tw.Flush()
}

func productsCmd(a *app) *cobra.Command {
	var f apiclient.ProductFilter
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.api.Products(cmd.Context(), f)
			if err != nil {
				return err
			}
			printProducts(a.out, products)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Query, "query", "q", "", "substring of name or description")
	cmd.Flags().StringVar(&f.Category, "category", "", "exact category")
	cmd.Flags().StringVar(&f.Sort, "sort", "", "newest|oldest|name-asc|name-desc|price-asc|price-desc")
	cmd.Flags().IntVar(&f.Page, "page", 0, "page number, all rows when 0")
	cmd.Flags().IntVar(&f.Size, "size", 0, "page size")
	return cmd
}

func categoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := a.api.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Fprintln(a.out, c)
			}
			return nil
		},
	}
}

func productCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product ID",
		Short: "Show one product with its rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.api.Product(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s\n%.2f\n", p.Name, p.Price)
			if p.Description != "" {
				fmt.Fprintln(a.out, p.Description)
			}
			if p.Rating != nil && p.Rating.Count > 0 {
				fmt.Fprintf(a.out, "rating %.1f (%d reviews)\n", p.Rating.Average, p.Rating.Count)
			}
			return nil
		},
	}
}

func printReviews(w io.Writer, reviews []apiclient.Review) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARS\tBY\tPRODUCT\tREVIEW")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", r.ID, r.Stars, r.UserName, r.ProductName, r.Review)
	}
	_ = tw.Flush()
}

func reviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reviews PRODUCT_ID",
		Short: "List reviews of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			reviews, err := a.api.ProductReviews(cmd.Context(), id)
			if err != nil {
				return err
			}
			printReviews(a.out, reviews)
			return nil
		},
	}
}

func userReviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user-reviews [USER_ID]",
		Short: "List reviews written by a user, the logged-in one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id uint
			var err error
			if len(args) == 1 {
				id, err = parseID(args[0])
			} else {
				id, err = a.store.UserID(cmd.Context())
			}
			if err != nil {
				return err
			}
			reviews, err := a.api.UserReviews(cmd.Context(), id)
			if err != nil {
				return err
			}
			printReviews(a.out, reviews)
			return nil
		},
	}
}

func reviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Write, edit or remove your reviews",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add PRODUCT_ID STARS TEXT...",
			Short: "Review a product",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				productID, err := parseID(args[0])
				if err != nil {
					return err
				}
				stars, err := parseStars(args[1])
				if err != nil {
					return err
				}
				r, err := a.api.CreateReview(cmd.Context(), productID, strings.Join(args[2:], " "), stars)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "review %d created\n", r.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "edit ID STARS TEXT...",
			Short: "Replace the text and stars of your review",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				stars, err := parseStars(args[1])
				if err != nil {
					return err
				}
				if _, err := a.api.UpdateReview(cmd.Context(), id, strings.Join(args[2:], " "), stars); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "review %d updated\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID",
			Short: "Delete your review",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.api.DeleteReview(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "review %d deleted\n", id)
				return nil
			},
		},
	)
	return cmd
}

func listCmd(a *app, list userstore.List, name string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: "Show the " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.store.Items(cmd.Context(), list)
			if err != nil {
				return err
			}
			total, err := a.store.Total(cmd.Context(), list)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE")
			for _, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\n", it.ID, it.Name, it.Price)
			}
			_ = tw.Flush()
			fmt.Fprintf(a.out, "total %.2f\n", total)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle PRODUCT_ID",
			Short: "Add the product, or remove it when already present",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := a.api.Product(cmd.Context(), id)
				if err != nil {
					return err
				}
				added, err := a.store.Toggle(cmd.Context(), list, userstore.Item{
					ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL,
				})
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(a.out, "added %s to %s\n", p.Name, name)
				} else {
					fmt.Fprintf(a.out, "removed %s from %s\n", p.Name, name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm PRODUCT_ID",
			Short: "Remove a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return a.store.Remove(cmd.Context(), list, id)
			},
		},
	)
	return cmd
}

func shopsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shops",
		Short: "List shops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shops, err := a.api.Shops(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tADDRESS\tPHONE\tPLUS CODE")
			for _, s := range shops {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Address, s.Phone, s.PlusCode)
			}
			return tw.Flush()
		},
	}
}

func nearestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "nearest LAT LNG",
		Short: "Find the closest shop",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[0])
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[1])
			}
			s, err := a.api.NearestShop(cmd.Context(), lat, lng)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s, %s (%.2f km)\n", s.Address, s.Phone, s.DistanceKM)
			return nil
		},
	}
}
