package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

var (
	restaurantTown    string
	restaurantName    string
	restaurantPick    int
	restaurantToken   string
	restaurantJSON    bool
	restaurantManual  bool
	restaurantAddress string
	restaurantPhone   string
)

var restaurantCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Find and register restaurants",
}

var restaurantSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for restaurants by town and name",
	Long: `Search the place provider for restaurants matching a name in a town.
At most five candidates are shown. Candidates that are already registered
show their restaurant ID.`,
	Args: cobra.NoArgs,
	RunE: runRestaurantSearch,
}

var restaurantAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a restaurant from search results",
	Long: `Search like 'restaurant search' and register one of the candidates.
Registering a place twice returns the existing restaurant.

With --manual no search is made and the restaurant is registered from the
flags. Use this in local mode without places.api_key, where search only finds
restaurants that are already registered.`,
	Args: cobra.NoArgs,
	RunE: runRestaurantAdd,
}

var restaurantShowCmd = &cobra.Command{
	Use:   "show [restaurant-id]",
	Short: "Show a restaurant and its menu",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestaurantShow,
}

func init() {
	for _, c := range []*cobra.Command{restaurantSearchCmd, restaurantAddCmd} {
		c.Flags().StringVarP(&restaurantTown, "town", "t", "", "town to search in")
		c.Flags().StringVarP(&restaurantName, "name", "n", "", "restaurant name")
		_ = c.MarkFlagRequired("town")
		_ = c.MarkFlagRequired("name")
	}
	restaurantAddCmd.Flags().IntVarP(&restaurantPick, "pick", "p", 1, "which search result to register (1-based)")
	restaurantAddCmd.Flags().StringVar(&restaurantToken, "token", "", "bearer token (default: auth.token setting)")
	restaurantAddCmd.Flags().BoolVar(&restaurantManual, "manual", false, "register from flags instead of search results")
	restaurantAddCmd.Flags().StringVar(&restaurantAddress, "address", "", "street address (with --manual)")
	restaurantAddCmd.Flags().StringVar(&restaurantPhone, "phone", "", "phone number (with --manual)")
	restaurantSearchCmd.Flags().BoolVar(&restaurantJSON, "json", false, "output as JSON")
	restaurantShowCmd.Flags().BoolVar(&restaurantJSON, "json", false, "output as JSON")

	restaurantCmd.AddCommand(restaurantSearchCmd)
	restaurantCmd.AddCommand(restaurantAddCmd)
	restaurantCmd.AddCommand(restaurantShowCmd)
	rootCmd.AddCommand(restaurantCmd)
}

// placeJSON is the JSON shape of a search candidate.
type placeJSON struct {
	RestaurantID string   `json:"restaurant_id,omitempty"`
	Name         string   `json:"name"`
	PlaceID      string   `json:"place_id"`
	Address      string   `json:"address,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	PriceLevel   string   `json:"price_level,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
}

// restaurantViewJSON is the JSON shape of a restaurant with its menu.
type restaurantViewJSON struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Place placeJSON  `json:"place"`
	Menu  []menuJSON `json:"menu"`
}

type menuJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func runRestaurantSearch(cmd *cobra.Command, _ []string) error {
	if restaurantCatalog == nil {
		return errors.New("restaurant service not configured")
	}

	candidates, err := restaurantCatalog.Search(context.Background(), restaurantTown, restaurantName)
	if err != nil {
		return userError(err)
	}

	if restaurantJSON {
		out := make([]placeJSON, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, toPlaceJSON(c.RestaurantID, c.Name, c.Place))
		}
		return writeJSON(cmd, out)
	}

	if len(candidates) == 0 {
		cmd.Println("No restaurants found.")
		return nil
	}

	cmd.Println(renderTable(
		[]string{"#", "Name", "Address", "Phone", "Price", "Rating", "Restaurant ID"},
		placeRows(candidates),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func runRestaurantAdd(cmd *cobra.Command, _ []string) error {
	if restaurantCatalog == nil {
		return errors.New("restaurant service not configured")
	}

	ctx := context.Background()
	var candidate domain.PlaceCandidate
	if restaurantManual {
		candidate = manualCandidate(restaurantTown, restaurantName, restaurantAddress, restaurantPhone)
	} else {
		candidates, err := restaurantCatalog.Search(ctx, restaurantTown, restaurantName)
		if err != nil {
			return userError(err)
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no restaurants found for %q in %q (use --manual to register it yourself)",
				restaurantName, restaurantTown)
		}
		if restaurantPick < 1 || restaurantPick > len(candidates) {
			return fmt.Errorf("--pick must be between 1 and %d", len(candidates))
		}
		candidate = candidates[restaurantPick-1]
	}

	restaurant, err := restaurantCatalog.Register(ctx, resolveCredential(restaurantToken), candidate)
	if err != nil {
		return userError(err)
	}

	cmd.Printf("Restaurant %s registered.\n", restaurant.ID)
	cmd.Printf("  Name: %s\n", restaurant.Name)
	cmd.Printf("  Address: %s\n", orNA(restaurant.Place.Address))
	return nil
}

func runRestaurantShow(cmd *cobra.Command, args []string) error {
	if restaurantCatalog == nil {
		return errors.New("restaurant service not configured")
	}

	restaurant, err := restaurantCatalog.Get(context.Background(), args[0])
	if err != nil {
		return userError(err)
	}

	if restaurantJSON {
		out := restaurantViewJSON{
			ID:    restaurant.ID,
			Name:  restaurant.Name,
			Place: toPlaceJSON(restaurant.ID, restaurant.Name, restaurant.Place),
			Menu:  make([]menuJSON, 0, len(restaurant.Menu)),
		}
		for _, ref := range restaurant.Menu {
			out.Menu = append(out.Menu, menuJSON{ID: ref.ID, Name: ref.Name})
		}
		return writeJSON(cmd, out)
	}

	place := restaurant.Place
	cmd.Printf("%s\n", restaurant.Name)
	cmd.Printf("  ID: %s\n", restaurant.ID)
	cmd.Printf("  Address: %s\n", orNA(place.Address))
	cmd.Printf("  Phone: %s\n", orNA(place.Phone))
	cmd.Printf("  Price: %s\n", formatPriceLevel(place.PriceLevel))
	cmd.Printf("  Rating: %s\n", formatRating(place.Rating))
	cmd.Println()

	if len(restaurant.Menu) == 0 {
		cmd.Println("No dishes reviewed yet.")
		return nil
	}

	rows := make([][]string, 0, len(restaurant.Menu))
	for i, ref := range restaurant.Menu {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), ref.Name, ref.ID})
	}
	cmd.Println(renderTable(
		[]string{"#", "Dish", "Dish ID"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
	return nil
}

func toPlaceJSON(restaurantID, name string, place domain.PlaceData) placeJSON {
	return placeJSON{
		RestaurantID: restaurantID,
		Name:         name,
		PlaceID:      place.PlaceID,
		Address:      place.Address,
		Phone:        place.Phone,
		PriceLevel:   place.PriceLevel,
		Rating:       place.Rating,
	}
}

// manualCandidate builds a candidate from user input. The place ID is derived
// from town and name so registering the same restaurant twice is idempotent.
// The address always mentions the town so later searches find it.
func manualCandidate(town, name, address, phone string) domain.PlaceCandidate {
	town, name, address = strings.TrimSpace(town), strings.TrimSpace(name), strings.TrimSpace(address)
	switch {
	case address == "":
		address = town
	case !strings.Contains(strings.ToLower(address), strings.ToLower(town)):
		address = address + ", " + town
	}
	return domain.PlaceCandidate{
		Name: name,
		Place: domain.PlaceData{
			PlaceID: "manual:" + strings.ToLower(town) + ":" + strings.ToLower(strings.Join(strings.Fields(name), " ")),
			Address: address,
			Phone:   strings.TrimSpace(phone),
		},
	}
}
