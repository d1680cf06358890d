package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"studio/internal/config"
	"studio/internal/models"
)

var (
	captionFlag string
	imageFlag   string
)

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish content without the HTTP API",
	}
	cmd.AddCommand(newPostInstagramCommand())
	return cmd
}

func newPostInstagramCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "instagram",
		Short:   "Upload an image and publish it to Instagram",
		Args:    cobra.NoArgs,
		Example: `  studio post instagram --caption "Launch day" --image ./launch.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			image, err := encodeImage(imageFlag)
			if err != nil {
				return err
			}
			publisher, err := buildInstagram(ctx, config.Get(), newTransport())
			if err != nil {
				return err
			}

			res := publisher.Publish(ctx, models.PublishRequest{
				Caption: strings.TrimSpace(captionFlag),
				Images:  []string{image},
			})
			if !res.Success {
				return fmt.Errorf("instagram (%d): %s", res.StatusCode, res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (post id %s)\n", res.Message, res.PostID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&captionFlag, "caption", "c", "", "Post caption")
	cmd.Flags().StringVar(&imageFlag, "image", "", "Path to the image to publish")
	cmd.Flags().SortFlags = false

	return cmd
}

// encodeImage reads path into the data-URL form the frontend sends.
func encodeImage(path string) (string, error) {
	if path == "" {
		return "", errors.New("--image is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mimeType)
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}
