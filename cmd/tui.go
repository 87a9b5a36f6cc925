package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/urfave/cli/v2"
)

type tuiStats struct {
	OnlinePlayers int `json:"online_players"`
	ConfigPlayers int `json:"config_players"`
}

type tuiPlayer struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

// tuiCmd runs a live terminal dashboard against a running node's admin
// HTTP API, polling /stats and /players on an interval. This is the only
// consumer of gizak/termui/v3 in this codebase — an operator-facing view
// with no bearing on the core's own behaviour.
func tuiCmd() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Live dashboard against a node's admin HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Admin HTTP base URL",
				Value: "http://localhost:8090",
			},
		},
		Action: func(c *cli.Context) error {
			return runTUI(c.String("addr"))
		},
	}
}

func runTUI(baseURL string) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("tui: failed to initialize termui: %w", err)
	}
	defer ui.Close()

	statsBox := widgets.NewParagraph()
	statsBox.Title = "Registry Stats"
	statsBox.SetRect(0, 0, 50, 5)

	playerList := widgets.NewList()
	playerList.Title = "Online Players"
	playerList.SetRect(0, 5, 50, 25)

	client := &http.Client{Timeout: 3 * time.Second}

	render := func() {
		stats, err := fetchStats(client, baseURL)
		if err != nil {
			statsBox.Text = fmt.Sprintf("error: %v", err)
		} else {
			statsBox.Text = fmt.Sprintf("online=%d config=%d", stats.OnlinePlayers, stats.ConfigPlayers)
		}

		players, err := fetchPlayers(client, baseURL)
		if err == nil {
			rows := make([]string, 0, len(players))
			for _, p := range players {
				rows = append(rows, fmt.Sprintf("%s (%s)", p.Username, p.UUID))
			}
			playerList.Rows = rows
		}

		ui.Render(statsBox, playerList)
	}

	render()

	tickerEvents := ui.PollEvents()
	refresh := time.NewTicker(2 * time.Second)
	defer refresh.Stop()

	for {
		select {
		case e := <-tickerEvents:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			}
		case <-refresh.C:
			render()
		}
	}
}

func fetchStats(client *http.Client, baseURL string) (tuiStats, error) {
	var stats tuiStats
	resp, err := client.Get(baseURL + "/stats")
	if err != nil {
		return stats, err
	}
	defer resp.Body.Close()
	err = json.NewDecoder(resp.Body).Decode(&stats)
	return stats, err
}

func fetchPlayers(client *http.Client, baseURL string) ([]tuiPlayer, error) {
	var players []tuiPlayer
	resp, err := client.Get(baseURL + "/players")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	err = json.NewDecoder(resp.Body).Decode(&players)
	return players, err
}
