package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/validation"
)

func (a *app) productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage catalog products",
	}

	// list
	var lowStock bool
	var output string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if lowStock {
				records, err := a.deps.Products.LowStockProducts(cmd.Context())
				if err != nil {
					return err
				}
				if output == "json" {
					return printJSON(out, records)
				}
				for _, r := range records {
					fmt.Fprintf(out, "%d | %s | stock %d | minimum %d\n", r.ID, r.Name, r.Stock, r.MinimumStock)
				}
				return nil
			}

			products, err := a.deps.Products.GetAllProducts(cmd.Context())
			if err != nil {
				return err
			}
			if output == "json" {
				views := make([]productView, 0, len(products))
				for _, p := range products {
					views = append(views, newProductView(p))
				}
				return printJSON(out, views)
			}
			for _, p := range products {
				fmt.Fprintf(out, "%d | %s | %.2f | %d | %s\n", p.ID, p.Name, p.Price, p.Stock, p.Category)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&lowStock, "low-stock", false, "only products at or below their minimum stock")
	listCmd.Flags().StringVar(&output, "output", "", "output format (json)")
	cmd.AddCommand(listCmd)

	// get
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.deps.Products.GetProductByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newProductView(*p))
		},
	})

	// create
	var form validation.ProductForm
	var imagePath string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form
			if imagePath != "" {
				upload, err := readImage(imagePath)
				if err != nil {
					return err
				}
				f.Image = upload
			}
			start := time.Now()
			p, err := a.deps.Products.CreateProduct(cmd.Context(), f)
			if repositories.IsImageUploadError(err) {
				a.deps.Logger.Warn("product created without image", zap.Int64("product_id", p.ID), zap.Error(err))
				fmt.Fprintf(cmd.ErrOrStderr(), "product %d was created but its image could not be uploaded: %v\n", p.ID, err)
				return printJSON(cmd.OutOrStdout(), newProductView(*p))
			}
			if err != nil {
				return err
			}
			a.timed("product created", start, zap.Int64("product_id", p.ID))
			return printJSON(cmd.OutOrStdout(), newProductView(*p))
		},
	}
	productFormFlags(createCmd, &form, &imagePath)
	cmd.AddCommand(createCmd)

	// update
	var uForm validation.ProductForm
	var uImagePath string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.deps.Products.GetProductByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			// Unchanged flags keep the current values.
			f := formFromProduct(*current)
			flags := cmd.Flags()
			if flags.Changed("name") {
				f.Name = uForm.Name
			}
			if flags.Changed("description") {
				f.Description = uForm.Description
			}
			if flags.Changed("category") {
				f.Category = uForm.Category
			}
			if flags.Changed("cost") {
				f.Cost = uForm.Cost
			}
			if flags.Changed("price") {
				f.Price = uForm.Price
			}
			if flags.Changed("stock") {
				f.Stock = uForm.Stock
			}
			if flags.Changed("minimum-stock") {
				f.MinimumStock = uForm.MinimumStock
			}
			if flags.Changed("expiration-date") {
				f.ExpirationDate = uForm.ExpirationDate
			}
			if uImagePath != "" {
				upload, err := readImage(uImagePath)
				if err != nil {
					return err
				}
				f.Image = upload
			}

			start := time.Now()
			p, err := a.deps.Products.UpdateProduct(cmd.Context(), id, f)
			if err != nil {
				return err
			}
			a.timed("product updated", start, zap.Int64("product_id", id))
			return printJSON(cmd.OutOrStdout(), newProductView(*p))
		},
	}
	productFormFlags(updateCmd, &uForm, &uImagePath)
	cmd.AddCommand(updateCmd)

	// stock
	var add bool
	stockCmd := &cobra.Command{
		Use:   "stock <id> <value>",
		Short: "Set the stock of a product, or add to it with --add",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid stock value %q", args[1])
			}
			p, err := a.deps.Products.AdjustStock(cmd.Context(), id, value, !add)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "product %d stock is now %d\n", p.ID, p.Stock)
			return nil
		},
	}
	stockCmd.Flags().BoolVar(&add, "add", false, "add value to the current stock")
	cmd.AddCommand(stockCmd)

	// image
	cmd.AddCommand(&cobra.Command{
		Use:   "image <id> <file>",
		Short: "Upload the picture of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			upload, err := readImage(args[1])
			if err != nil {
				return err
			}
			url, err := a.deps.Products.RetryImageUpload(cmd.Context(), id, *upload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	})

	// delete
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.deps.Products.DeleteProduct(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	})

	return cmd
}

func productFormFlags(cmd *cobra.Command, f *validation.ProductForm, imagePath *string) {
	flags := cmd.Flags()
	flags.StringVar(&f.Name, "name", "", "name")
	flags.StringVar(&f.Description, "description", "", "description")
	flags.StringVar(&f.Category, "category", "", "category")
	flags.StringVar(&f.Cost, "cost", "0", "unit cost")
	flags.StringVar(&f.Price, "price", "0", "unit price")
	flags.StringVar(&f.Stock, "stock", "0", "stock")
	flags.StringVar(&f.MinimumStock, "minimum-stock", "", "minimum stock")
	flags.StringVar(&f.ExpirationDate, "expiration-date", "", "expiration date (YYYY-MM-DD)")
	flags.StringVar(imagePath, "image", "", "image file (JPEG or PNG)")
}

func formFromProduct(p models.Product) validation.ProductForm {
	f := validation.ProductForm{
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Cost:          strconv.FormatFloat(p.Cost, 'f', -1, 64),
		Price:         strconv.FormatFloat(p.Price, 'f', -1, 64),
		Stock:         strconv.Itoa(p.Stock),
		MinimumStock:  strconv.Itoa(p.MinimumStock),
		ImageOptional: true,
	}
	if p.ExpirationDate != nil {
		f.ExpirationDate = p.ExpirationDate.Format("2006-01-02")
	}
	return f
}

func readImage(path string) (*models.ImageUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &models.ImageUpload{Filename: filepath.Base(path), Content: content}, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
