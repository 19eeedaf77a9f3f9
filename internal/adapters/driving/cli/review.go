package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

var (
	reviewRestaurant   string
	reviewDish         string
	reviewImage        string
	reviewRestrictions string
	reviewComment      string
	reviewToken        string
	reviewJSON         bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage dish reviews",
}

var reviewAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Submit a review for a dish",
	Long: `Submit a review for a dish at a registered restaurant.

The dish is matched by name, ignoring case and extra spaces. If the
restaurant has no such dish yet it is created, and the image (if any) is
uploaded as its picture. The review is then recorded against the dish.

Restrictions are a comma-separated list, e.g. "peanuts, gluten".`,
	Example: `  dishsafe review add --restaurant 3f2a --dish "Pad Thai" \
    --restrictions "peanuts" --comment "Made without peanuts on request" \
    --image pad-thai.jpg`,
	Args: cobra.NoArgs,
	RunE: runReviewAdd,
}

func init() {
	reviewAddCmd.Flags().StringVarP(&reviewRestaurant, "restaurant", "r", "", "restaurant ID (see 'restaurant search')")
	reviewAddCmd.Flags().StringVarP(&reviewDish, "dish", "d", "", "dish name")
	reviewAddCmd.Flags().StringVarP(&reviewImage, "image", "i", "", "path to a dish photo, used only when the dish is new")
	reviewAddCmd.Flags().StringVar(&reviewRestrictions, "restrictions", "", "comma-separated allergy/restriction tags")
	reviewAddCmd.Flags().StringVarP(&reviewComment, "comment", "c", "", "review text")
	reviewAddCmd.Flags().StringVar(&reviewToken, "token", "", "bearer token (default: auth.token setting)")
	reviewAddCmd.Flags().BoolVar(&reviewJSON, "json", false, "output the result as JSON")
	_ = reviewAddCmd.MarkFlagRequired("restaurant")
	_ = reviewAddCmd.MarkFlagRequired("dish")
	_ = reviewAddCmd.MarkFlagRequired("comment")

	reviewCmd.AddCommand(reviewAddCmd)
	rootCmd.AddCommand(reviewCmd)
}

func runReviewAdd(cmd *cobra.Command, _ []string) error {
	if reviewSubmitter == nil {
		return errors.New("review service not configured")
	}

	var image []byte
	if reviewImage != "" {
		data, err := os.ReadFile(reviewImage)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		image = data
	}

	sub := domain.ReviewSubmission{
		Restaurant:   &domain.PlaceCandidate{RestaurantID: reviewRestaurant},
		DishName:     reviewDish,
		Image:        image,
		Restrictions: reviewRestrictions,
		Comment:      reviewComment,
	}

	result, err := reviewSubmitter.Submit(context.Background(), resolveCredential(reviewToken), sub)
	if err != nil {
		return userError(err)
	}

	if reviewJSON {
		return writeJSON(cmd, result)
	}

	cmd.Printf("Review %s recorded.\n", result.ReviewID)
	if result.DishCreated {
		cmd.Printf("  Dish: %s (new)\n", result.DishID)
	} else {
		cmd.Printf("  Dish: %s\n", result.DishID)
	}
	if result.ImageURL != "" {
		cmd.Printf("  Image: %s\n", result.ImageURL)
	}
	cmd.Printf("Run 'dishsafe dish show %s' to see all reviews.\n", result.DishID)
	return nil
}
