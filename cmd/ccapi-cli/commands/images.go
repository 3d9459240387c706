package commands

import (
	"log/slog"
	"os"

	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	imagesCmd.AddCommand(imagesListCmd, imagesUploadCmd, imagesDeleteCmd)
	rootCmd.AddCommand(imagesCmd)
}

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "The 'images' subcommand works with product images.",
}

var imagesListCmd = &cobra.Command{
	Use:   "list <product id>",
	Short: "Lists the images of a product in display order.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		images, err := api.Products.GetImages(cmd.Context(), intArg("product id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to get images", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "URL"})
		for _, image := range images {
			t.AppendRow(table.Row{image.ID, image.URL})
		}
		t.Render()
	},
}

var imagesUploadCmd = &cobra.Command{
	Use:   "upload <file> <product id>...",
	Short: "Uploads an image and attaches it to products.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read image", err)
		}

		api := connect(cmd)
		image, err := api.Products.UploadImage(cmd.Context(), intArgs("product id", args[1:]), args[0], data)
		if err != nil {
			serviceutil.Fatal("failed to upload image", err)
		}
		slog.Info("uploaded image", "id", image.ID, "url", image.URL)
	},
}

var imagesDeleteCmd = &cobra.Command{
	Use:   "delete <image id>",
	Short: "Deletes an image.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		err := api.Products.DeleteImage(cmd.Context(), intArg("image id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to delete image", err)
		}
	},
}
