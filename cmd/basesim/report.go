package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/savegame"
)

func newReportCmd() *cobra.Command {
	var events int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the bases, projects, prisoners and factions of a save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			name := config.GetSimConfig().SaveName
			g, err := a.backend.LoadGame(name)
			if err != nil {
				return err
			}
			history, err := a.backend.Events(name)
			if err != nil {
				return err
			}
			if events >= 0 && len(history) > events {
				history = history[len(history)-events:]
			}
			printReport(a.out, g, history)
			return nil
		},
	}

	cmd.Flags().IntVarP(&events, "events", "e", 10, "Most recent events to show, -1 for all")
	return cmd
}

func printReport(w io.Writer, g *savegame.SavedGame, history []savegame.Event) {
	titleColor := color.New(color.FgCyan, color.Bold)
	sectionColor := color.New(color.FgYellow, color.Bold)

	titleColor.Fprintf(w, "\n%s  %s\n", g.Name, g.Time.Time().Format("2006-01-02 15:04"))
	fundsColor(g.Funds).Fprintf(w, "Funds: %d", g.Funds)
	fmt.Fprintf(w, "  Score: %d  Researched: %d\n", g.Score, len(g.Researched))

	section := func(title string, header []string, rows [][]string) {
		sectionColor.Fprintf(w, "\n%s\n", title)
		if len(rows) == 0 {
			fmt.Fprintln(w, "none")
			return
		}
		table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
		for _, row := range rows {
			_ = table.Append(row)
		}
		_ = table.Render()
	}

	var bases, productions, research, prisoners [][]string
	for _, b := range g.Bases {
		built := 0
		for _, f := range b.Facilities {
			if f.Built() {
				built++
			}
		}
		bases = append(bases, []string{
			fmt.Sprint(b.ID),
			b.Name,
			fmt.Sprintf("%.2f, %.2f", b.Longitude, b.Latitude),
			fmt.Sprintf("%d/%d", built, len(b.Facilities)),
			fmt.Sprint(len(b.Soldiers)),
			fmt.Sprint(b.AvailableQuarters()),
			fmt.Sprint(b.AvailableWorkshopSpace()),
			fmt.Sprint(b.MonthlyMaintenance()),
		})

		for _, p := range b.Productions {
			amount := fmt.Sprint(p.Amount)
			if p.Infinite {
				amount = "∞"
			}
			productions = append(productions, []string{
				b.Name,
				p.Rule.Name,
				fmt.Sprintf("%d/%s", p.AmountProduced(), amount),
				fmt.Sprintf("%.1f", p.TimeSpent),
				fmt.Sprint(len(p.Engineers(b))),
			})
		}
		for _, r := range b.Research {
			state := "active"
			if r.Offline {
				state = "offline"
			}
			research = append(research, []string{
				b.Name,
				r.Rule.Name,
				fmt.Sprintf("%d%%", r.PercentComplete()),
				fmt.Sprint(len(r.Scientists(b))),
				state,
			})
		}
		for _, p := range b.Prisoners {
			prisoners = append(prisoners, []string{
				b.Name,
				p.Type,
				string(p.State),
				fmt.Sprint(p.Health),
				fmt.Sprint(p.Morale),
				fmt.Sprintf("%.0f", p.Cooperation),
				fmt.Sprint(len(p.Agents(b))),
			})
		}
	}

	var factions [][]string
	for _, f := range g.Factions {
		if !f.Discovered {
			continue
		}
		factions = append(factions, []string{
			f.Name,
			f.Level(),
			fmt.Sprint(f.Reputation),
			fmt.Sprint(f.Power),
			fmt.Sprint(f.ThinkMonthly()),
		})
	}

	var recent [][]string
	for _, e := range history {
		recent = append(recent, []string{
			e.Time.Format("2006-01-02 15:04"),
			string(e.Kind),
			e.Subject,
			e.Detail,
			fmt.Sprint(e.Value),
		})
	}

	section("Bases", []string{"ID", "Name", "Location", "Facilities", "Personnel", "Free Quarters", "Free Workshop", "Upkeep"}, bases)
	section("Manufacturing", []string{"Base", "Item", "Produced", "Hours", "Engineers"}, productions)
	section("Research", []string{"Base", "Topic", "Progress", "Scientists", "State"}, research)
	section("Prisoners", []string{"Base", "Type", "State", "Health", "Morale", "Cooperation", "Agents"}, prisoners)
	section("Factions", []string{"Faction", "Standing", "Reputation", "Power", "Funding"}, factions)
	section("Recent Events", []string{"Time", "Event", "Subject", "Detail", "Value"}, recent)

	if len(g.Discovered) > 0 {
		topics := make([]string, 0, len(g.Discovered))
		for t := range g.Discovered {
			topics = append(topics, t)
		}
		sort.Strings(topics)
		sectionColor.Fprintf(w, "\nAvailable Research\n")
		fmt.Fprintln(w, strings.Join(topics, ", "))
	}
}
