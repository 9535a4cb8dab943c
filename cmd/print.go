package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chrisdamba/foodiq/internal/models"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummaries(w io.Writer, summaries []models.RestaurantSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, models.MessageNoResults)
		return
	}
	for i, s := range summaries {
		distance := ""
		if s.Distance != nil {
			distance = fmt.Sprintf("  %s mi", *s.Distance)
		}
		fmt.Fprintf(w, "%2d. %s  [%s]  %.1f★ (%d reviews)  %s%s\n", i+1, s.Name, s.ID, s.Rating, s.ReviewCount, s.Price, distance)
		fmt.Fprintf(w, "    %s\n", s.Address)
		if len(s.Categories) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(s.Categories, ", "))
		}
	}
}

func printDetail(w io.Writer, d *models.RestaurantDetail) {
	fmt.Fprintf(w, "%s  [%s]\n", d.Name, d.ID)
	fmt.Fprintf(w, "  Rating:       %.1f (%d reviews)\n", d.Rating, d.ReviewCount)
	fmt.Fprintf(w, "  Price:        %s\n", d.Price)
	fmt.Fprintf(w, "  Address:      %s\n", d.Address)
	if d.Phone != "" {
		fmt.Fprintf(w, "  Phone:        %s\n", d.Phone)
	}
	fmt.Fprintf(w, "  Hours:        %s\n", d.Hours)
	fmt.Fprintf(w, "  Specialties:  %s\n", d.Specialties)
	fmt.Fprintf(w, "  Delivery: %s  Pickup: %s  Reservations: %s\n", yesNo(d.Delivery), yesNo(d.Pickup), yesNo(d.Reservations))
	if d.URL != "" {
		fmt.Fprintf(w, "  %s\n", d.URL)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
