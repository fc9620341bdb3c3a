package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/vadim/slack-threads/internal/config"
	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
	"github.com/vadim/slack-threads/internal/viewer"
)

const maxConcurrentLoads = 4

func main() {
	expandAll := flag.Bool("all", false, "expand every conversation")
	flag.Parse()

	cfg := config.MustLoadViewer()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx := context.Background()
	client := viewer.NewClient(cfg.APIURL, cfg.AnonKey, cfg.Timeout)

	state := viewer.State{}.StartRefresh()
	convs, err := client.Conversations(ctx)
	if err != nil {
		logger.Error("fetching conversations", "error", err)
		state = state.RefreshFailed(err)
		render(state)
		os.Exit(1)
	}
	state = state.ConversationsLoaded(convs)

	ids := flag.Args()
	if *expandAll {
		ids = make([]string, 0, len(convs))
		for _, c := range convs {
			ids = append(ids, c.ID)
		}
	}

	state = expand(ctx, client, state, dedupe(ids), logger)
	render(state)
}

type loadResult struct {
	id       string
	messages []entity.Message
	err      error
}

// expand opens the given conversations and loads the ones not cached yet.
// Loads run concurrently; the state is only updated from this goroutine.
func expand(ctx context.Context, client *viewer.Client, state viewer.State, ids []string, logger *slog.Logger) viewer.State {
	var pending []string
	for _, id := range ids {
		var needsFetch bool
		state, needsFetch = state.Toggle(id)
		if needsFetch {
			state = state.StartLoading(id)
			pending = append(pending, id)
		}
	}

	results := make([]loadResult, len(pending))
	var g errgroup.Group
	g.SetLimit(maxConcurrentLoads)
	for i, id := range pending {
		g.Go(func() error {
			msgs, err := client.Messages(ctx, id)
			results[i] = loadResult{id: id, messages: msgs, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.err != nil {
			logger.Warn("fetching messages", "conversation_id", r.id, "error", r.err)
			state = state.MessagesFailed(r.id)
			continue
		}
		state = state.MessagesLoaded(r.id, r.messages)
	}

	return state
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func render(state viewer.State) {
	if err := viewer.Render(os.Stdout, state); err != nil {
		log.Fatalf("rendering: %v", err)
	}
}
