package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/productaware/ecoselect/internal/recommender"
	"github.com/productaware/ecoselect/internal/wizard"
)

const requestTimeout = 15 * time.Second

func loadFilters(client recommender.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		filters, err := client.LoadFilters(ctx)
		return filtersMsg{filters: filters, err: err}
	}
}

func fetchRecommendations(client recommender.Client, eff wizard.FetchRecommendations) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := client.Recommend(ctx, recommender.RecommendRequest{
			Category:        eff.Category,
			RequiredMetrics: eff.RequiredMetrics,
			Weights:         eff.Weights,
		})
		return recommendationsMsg{token: eff.Token, items: items, err: err}
	}
}

func fetchDetail(client recommender.Client, eff wizard.FetchDetail) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		detail, err := client.MaterialDetail(ctx, eff.MaterialID)
		return detailMsg{token: eff.Token, detail: detail, err: err}
	}
}
