package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Kiriweb/carbontracker/internal/catalog"
	"github.com/Kiriweb/carbontracker/internal/dashboard"
	"github.com/Kiriweb/carbontracker/internal/dto"
)

// labelize turns a snake_case catalog value into a display label.
func labelize(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func renderUserView(w io.Writer, me dto.User, logs []dto.EmissionLog, catalogs catalog.Set) {
	fmt.Fprintf(w, "Welcome, %s\n\n", me.Email)
	renderLogs(w, logs)
	fmt.Fprintf(w, "\nCatalogs loaded: vehicles %d, countries %d, waste types %d, fuels %d\n",
		catalogs.Vehicles.Len(), len(catalogs.Countries), catalogs.Waste.Len(), catalogs.Fuels.Len())
}

func renderAdminView(w io.Writer, me dto.User, pending, all []dto.User, snap dashboard.Snapshot, logs []dto.EmissionLog) {
	fmt.Fprintf(w, "Admin dashboard, signed in as %s\n\n", me.Email)

	fmt.Fprintln(w, "Pending users:")
	if len(pending) == 0 {
		fmt.Fprintln(w, "  none")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  ID\tEMAIL")
		for _, user := range pending {
			fmt.Fprintf(tw, "  %d\t%s\n", user.ID, user.Email)
		}
		tw.Flush()
	}

	fmt.Fprintln(w, "\nAll users:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tEMAIL\tENABLED\tACTIONS")
	for _, user := range all {
		actions := "delete"
		// No delete action for the administrator's own row.
		if user.ID == me.ID {
			actions = "-"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%t\t%s\n", user.ID, user.Email, user.Enabled, actions)
	}
	tw.Flush()

	if snap.HasCredential {
		if snap.Credential.HasKey {
			fmt.Fprintf(w, "\nShared AI credential: %s\n", snap.Credential.Masked)
		} else {
			fmt.Fprintln(w, "\nShared AI credential: not configured")
		}
	}

	fmt.Fprintln(w, "")
	renderLogs(w, logs)
}

// renderCatalogs lists the server catalogs with display labels, so users can
// discover the keys the quick-entry flags accept.
func renderCatalogs(w io.Writer, catalogs catalog.Set) {
	fmt.Fprintln(w, "Vehicles:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  KEY\tLABEL")
	for _, key := range catalogs.Vehicles.Keys() {
		fmt.Fprintf(tw, "  %s\t%s\n", key, labelize(key))
	}
	tw.Flush()

	fmt.Fprintln(w, "\nElectricity countries:")
	for _, country := range catalogs.Countries {
		fmt.Fprintf(w, "  %s\n", country)
	}

	fmt.Fprintln(w, "\nWaste types and methods:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  TYPE\tLABEL\tMETHODS")
	for _, wasteType := range catalogs.Waste.Types() {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", wasteType, labelize(wasteType),
			strings.Join(catalogs.Waste.MethodsFor(wasteType), ", "))
	}
	tw.Flush()

	fmt.Fprintln(w, "\nFuels:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  KEY\tLABEL")
	for _, key := range catalogs.Fuels.Keys() {
		fmt.Fprintf(tw, "  %s\t%s\n", key, labelize(key))
	}
	tw.Flush()
}

func renderLogs(w io.Writer, logs []dto.EmissionLog) {
	fmt.Fprintln(w, "Emission logs:")
	if len(logs) == 0 {
		fmt.Fprintln(w, "  no logs yet")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tDATE\tTOTAL (kg CO2e)\tCATEGORY\tDESCRIPTION")
	for _, log := range logs {
		category := "-"
		if log.Category != "" {
			category = labelize(log.Category)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", log.ID, log.When(), log.Total().Display(), category, log.Description)
	}
	tw.Flush()
}
