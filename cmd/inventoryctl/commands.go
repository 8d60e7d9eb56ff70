package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/DRSN-tech/inventory/internal/console"
	"github.com/DRSN-tech/inventory/pkg/inventoryclient"
	"github.com/spf13/cobra"
)

const (
	defaultAPIURL = "http://localhost:8080/graphql"
	apiURLEnv     = "INVENTORY_API_URL"
)

var errValidation = errors.New("validation failed")

type clientFactory func() *inventoryclient.Client

func newRootCmd() *cobra.Command {
	var apiURL string

	root := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Terminal client for the inventory GraphQL API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	def := os.Getenv(apiURLEnv)
	if def == "" {
		def = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&apiURL, "api", def, "GraphQL endpoint (env "+apiURLEnv+")")

	client := func() *inventoryclient.Client { return inventoryclient.New(apiURL) }

	root.AddCommand(
		newCategoriesCmd(client),
		newListCmd(client),
		newCreateCmd(client),
		newDeleteCmd(client),
		newBrowseCmd(client),
	)

	return root
}

func newCategoriesCmd(client clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := client().Categories(cmd.Context())
			if err != nil {
				return err
			}

			return console.RenderCategories(cmd.OutOrStdout(), categories, nil)
		},
	}
}

func newListCmd(client clientFactory) *cobra.Command {
	var (
		search     string
		categories []int64
		page       int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products with optional filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := console.NewListView(limit)
			view.SetSearch(search)
			view.SetCategories(categories)
			if !view.SetPage(page) {
				return fmt.Errorf("invalid page %d", page)
			}

			if err := view.Refresh(cmd.Context(), client()); err != nil {
				return err
			}

			return console.RenderList(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name substring")
	cmd.Flags().Int64SliceVarP(&categories, "category", "c", nil, "category id filter, repeatable")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "l", console.DefaultPageSize, "page size")

	return cmd
}

func newCreateCmd(client clientFactory) *cobra.Command {
	var (
		form       = console.NewForm()
		quantity   string
		categories []int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !form.SetQuantity(quantity) {
				return fmt.Errorf("quantity is limited to 3 digits")
			}
			form.SetCategories(categories)

			msg, err := client().CreateProduct(cmd.Context(), form.Input())
			if err != nil {
				details := inventoryclient.FieldErrors(err)
				if details == nil {
					return err
				}

				form.ApplyErrors(details)
				fmt.Fprintln(cmd.ErrOrStderr(), "You might be missing required fields:")
				_ = console.RenderFormErrors(cmd.ErrOrStderr(), form)
				return errValidation
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&form.Name, "name", "n", "", "product name")
	cmd.Flags().StringVarP(&form.Description, "description", "d", "", "product description")
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "", "quantity, up to 3 digits")
	cmd.Flags().Int64SliceVarP(&categories, "category", "c", nil, "category id, repeatable")

	return cmd
}

func newDeleteCmd(client clientFactory) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			if !yes {
				ok, err := console.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).
					Confirm(fmt.Sprintf("Delete product %d?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			msg, err := client().DeleteProduct(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func newBrowseCmd(client clientFactory) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactive list with search, category filter, paging, create and delete",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Type h for help")
			return console.NewBrowser(client(), cmd.InOrStdin(), cmd.OutOrStdout(), limit).Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", console.DefaultPageSize, "page size")

	return cmd
}
