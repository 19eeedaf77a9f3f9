package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dishsafe/internal/core/ports/driving"
)

var dishJSON bool

var dishCmd = &cobra.Command{
	Use:   "dish",
	Short: "Inspect dishes",
}

var dishShowCmd = &cobra.Command{
	Use:   "show [dish-id]",
	Short: "Show a dish and its reviews with safety annotations",
	Long: `Show a dish, its known allergy and restriction tags, and every review.

Each review lists the tags its comment indicates are safe. Comments are
classified on every view; a review whose classification fails simply
shows no safe tags.`,
	Args: cobra.ExactArgs(1),
	RunE: runDishShow,
}

func init() {
	dishShowCmd.Flags().BoolVar(&dishJSON, "json", false, "output as JSON")
	dishCmd.AddCommand(dishShowCmd)
	rootCmd.AddCommand(dishCmd)
}

// dishReviewJSON is the JSON shape of an annotated review.
type dishReviewJSON struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id,omitempty"`
	Allergies      []string `json:"allergies"`
	Restrictions   []string `json:"restrictions"`
	Comment        string   `json:"comment"`
	SafeCategories []string `json:"safe_categories"`
	CreatedAt      string   `json:"created_at,omitempty"`
}

// dishViewJSON is the JSON shape of the dish detail view.
type dishViewJSON struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	RestaurantID    string           `json:"restaurant_id"`
	ImageURL        string           `json:"image_url,omitempty"`
	AllergyTags     []string         `json:"allergy_tags"`
	RestrictionTags []string         `json:"restriction_tags"`
	Reviews         []dishReviewJSON `json:"reviews"`
}

func runDishShow(cmd *cobra.Command, args []string) error {
	if safetyAnnotator == nil {
		return errors.New("safety service not configured")
	}

	view, err := safetyAnnotator.DishReviews(context.Background(), args[0])
	if err != nil {
		return userError(err)
	}

	if dishJSON {
		return writeJSON(cmd, toDishViewJSON(view))
	}

	dish := view.Dish
	cmd.Printf("%s\n", dish.Name)
	cmd.Printf("  ID: %s\n", dish.ID)
	cmd.Printf("  Restaurant: %s\n", dish.RestaurantID)
	cmd.Printf("  Allergies: %s\n", formatTags(dish.AllergyTags))
	cmd.Printf("  Restrictions: %s\n", formatTags(dish.RestrictionTags))
	cmd.Printf("  Image: %s\n", orNA(dish.ImageURL))
	cmd.Println()

	if len(view.Reviews) == 0 {
		cmd.Println("No reviews yet.")
		return nil
	}

	rows := make([][]string, 0, len(view.Reviews))
	for i, r := range view.Reviews {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			formatDate(r.CreatedAt),
			formatTags(r.Tags()),
			formatTags(r.SafeCategories),
			r.Comment,
		})
	}
	cmd.Println(renderTable(
		[]string{"#", "Date", "Tags", "Safe For", "Comment"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

func toDishViewJSON(view *driving.DishView) dishViewJSON {
	out := dishViewJSON{
		ID:              view.Dish.ID,
		Name:            view.Dish.Name,
		RestaurantID:    view.Dish.RestaurantID,
		ImageURL:        view.Dish.ImageURL,
		AllergyTags:     nonNil(view.Dish.AllergyTags),
		RestrictionTags: nonNil(view.Dish.RestrictionTags),
		Reviews:         make([]dishReviewJSON, 0, len(view.Reviews)),
	}
	for _, r := range view.Reviews {
		review := dishReviewJSON{
			ID:             r.ID,
			UserID:         r.UserID,
			Allergies:      nonNil(r.Allergies),
			Restrictions:   nonNil(r.Restrictions),
			Comment:        r.Comment,
			SafeCategories: nonNil(r.SafeCategories),
		}
		if !r.CreatedAt.IsZero() {
			review.CreatedAt = r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		out.Reviews = append(out.Reviews, review)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
