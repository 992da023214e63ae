package installer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/providers/llm"
)

type modelLister func(ctx context.Context, state *InstallState) ([]core.Model, error)

func listModels(ctx context.Context, state *InstallState) ([]core.Model, error) {
	p, err := llm.NewProvider(ctx, state.Backend())
	if err != nil {
		return nil, err
	}
	return p.Models(ctx)
}

// ModelStep allows selection of the chat model from the backend's listing
type ModelStep struct {
	list     list.Model
	lister   modelLister
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep() Step {
	return newModelStep(listModels)
}

func newModelStep(lister modelLister) *ModelStep {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		list:    l,
		lister:  lister,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return next
}

func (s *ModelStep) fetch(state *InstallState) tea.Cmd {
	s.fetching = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		models, err := s.lister(ctx, state)
		if err != nil {
			return errMsg(err)
		}
		sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

		items := make([]list.Item, 0, len(models))
		for _, mod := range models {
			title := mod.Name
			if title == "" {
				title = mod.ID
			}
			desc := "ID: " + mod.ID
			if mod.ContextLength > 0 {
				desc = fmt.Sprintf("ID: %s | Context: %d", mod.ID, mod.ContextLength)
			}
			items = append(items, item{id: mod.ID, title: title, desc: desc})
		}
		return modelsMsg(items)
	}
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// Azure routes every request to the configured deployment.
	if state.EnvVars[envUseAzure] == "true" {
		state.EnvVars[envModel] = config.DefaultModel
		return nil, nil
	}

	if s.loading && !s.fetching {
		return s, s.fetch(state)
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				s.err = nil
				s.loading = true
				return s, s.fetch(state)
			case "s":
				state.EnvVars[envModel] = config.DefaultModel
				return nil, nil
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.EnvVars[envModel] = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your credentials and connection.\n\n" +
			fmt.Sprintf("(press enter to retry, s to use %s, ctrl+c to quit)\n", config.DefaultModel)
	}
	if s.loading {
		return "Fetching models...\n"
	}
	return s.list.View()
}
