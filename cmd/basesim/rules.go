package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ftageo/basesim/internal/config"
	"github.com/ftageo/basesim/internal/rules"
)

var ruleSections = []string{"soldiers", "facilities", "manufacture", "research", "prisoners", "factions"}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "rules [section]",
		Short:     "List the loaded ruleset",
		Long:      "Lists the merged ruleset, optionally one section: " + strings.Join(ruleSections, ", ") + ".",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: ruleSections,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := config.GetString("rulesDir")
			mod, err := rules.Load(dir)
			if err != nil {
				return err
			}
			if err := mod.Validate(); err != nil {
				color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Ruleset has problems:\n%v\n", err)
			}
			only := ""
			if len(args) == 1 {
				only = args[0]
			}
			printRules(cmd.OutOrStdout(), mod, only)
			return nil
		},
	}
}

func printRules(w io.Writer, mod *rules.Mod, only string) {
	sectionColor := color.New(color.FgCyan, color.Bold)
	section := func(name string, header []string, rows [][]string) {
		if only != "" && only != name {
			return
		}
		sectionColor.Fprintf(w, "\n%s (%d)\n", strings.ToUpper(name[:1])+name[1:], len(rows))
		if len(rows) == 0 {
			return
		}
		table := tablewriter.NewTable(w, tablewriter.WithHeader(header))
		for _, row := range rows {
			_ = table.Append(row)
		}
		_ = table.Render()
	}

	var rows [][]string
	for _, typ := range mod.SoldierTypes() {
		r, _ := mod.Soldier(typ)
		rows = append(rows, []string{typ, string(r.Role), fmt.Sprint(r.Salary), statList(r.MinStats)})
	}
	section("soldiers", []string{"Type", "Role", "Salary", "Min Stats"}, rows)

	rows = nil
	for _, typ := range mod.FacilityTypes() {
		r, _ := mod.Facility(typ)
		rows = append(rows, []string{
			typ,
			fmt.Sprint(r.BuildDays),
			fmt.Sprint(r.BuildCost),
			fmt.Sprint(r.MonthlyCost),
			capacityList(r),
		})
	}
	section("facilities", []string{"Type", "Build Days", "Build Cost", "Upkeep", "Capacity"}, rows)

	rows = nil
	for _, name := range mod.ManufactureNames() {
		r, _ := mod.Manufacture(name)
		output := "items"
		switch {
		case r.IsFacility():
			output = r.ProducedFacility
		case r.SpawnedPersonType != "":
			output = r.SpawnedPersonType
		}
		rows = append(rows, []string{
			name,
			fmt.Sprint(r.ManufactureTime),
			fmt.Sprint(r.Cost),
			fmt.Sprint(r.SellValue),
			output,
			strings.Join(r.RequiredFacilities, ", "),
		})
	}
	section("manufacture", []string{"Name", "Hours", "Cost", "Sell", "Output", "Requires"}, rows)

	rows = nil
	for _, name := range mod.ResearchNames() {
		r, _ := mod.Research(name)
		rows = append(rows, []string{
			name,
			fmt.Sprint(r.Cost),
			fmt.Sprint(r.Points),
			strings.Join(r.Dependencies, ", "),
			strings.Join(r.Unlocks, ", "),
		})
	}
	section("research", []string{"Topic", "Cost", "Points", "Dependencies", "Unlocks"}, rows)

	rows = nil
	for _, typ := range mod.PrisonerTypes() {
		r, _ := mod.Prisoner(typ)
		rows = append(rows, []string{
			typ,
			fmt.Sprint(r.MaxHealth),
			fmt.Sprint(r.Morale),
			r.InterrogationResearch,
			r.RecruitType,
		})
	}
	section("prisoners", []string{"Type", "Health", "Morale", "Intel", "Recruits As"}, rows)

	rows = nil
	for _, name := range mod.FactionNames() {
		r, _ := mod.Faction(name)
		levels := make([]string, 0, len(r.Levels))
		for _, l := range r.Levels {
			levels = append(levels, fmt.Sprintf("%s≥%d", l.Name, l.MinScore))
		}
		rows = append(rows, []string{name, fmt.Sprint(r.StartingReputation), r.DiscoveredBy, strings.Join(levels, " ")})
	}
	section("factions", []string{"Faction", "Reputation", "Discovered By", "Levels"}, rows)
}

func statList(s rules.Stats) string {
	parts := make([]string, 0, len(s))
	for _, id := range s.Keys() {
		parts = append(parts, fmt.Sprintf("%s %d", id, s.Get(id)))
	}
	return strings.Join(parts, ", ")
}

func capacityList(r *rules.RuleFacility) string {
	var parts []string
	for _, c := range []struct {
		name string
		n    int
	}{
		{"quarters", r.Personnel},
		{"labs", r.Laboratories},
		{"workshops", r.Workshops},
		{"prison", r.PrisonCapacity},
		{"storage", r.Storage},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c.name, c.n))
		}
	}
	return strings.Join(parts, ", ")
}
