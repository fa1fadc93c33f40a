package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"restaurant-cart/internal/catalog"
	"restaurant-cart/internal/models"
)

var menuCategory string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the menu",
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, err := models.ParseFilter(menuCategory)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDISH\tCATEGORY\tPRICE")
		for _, item := range catalog.Filter(filter) {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, item.Name, item.Category, item.Price)
		}
		return tw.Flush()
	},
}

func init() {
	menuCmd.Flags().StringVar(&menuCategory, "category", "", "Filter by category (all, veg, nonveg)")
}
