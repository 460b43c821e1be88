// Package ingest materializes a task's full subtask tree from the tracker.
package ingest

import (
	"context"
	"fmt"

	"github.com/asanadoc/asanadoc/pkg/journal"
	"github.com/asanadoc/asanadoc/pkg/model"
)

// Client is the read surface of the task tracker the engine ingests from.
type Client interface {
	GetTask(ctx context.Context, gid string) (*model.Task, error)
	GetStories(ctx context.Context, gid string) ([]model.Activity, error)
	GetSubtasks(ctx context.Context, gid string) ([]model.TaskRef, error)
}

// Engine walks a task's subtask tree depth-first and materializes it.
// Remote calls are strictly sequential; no two requests are ever in
// flight at once, so the tracker's rate limit is respected without any
// coordination beyond the client's own pacing.
type Engine struct {
	client Client
	log    journal.Sink
}

func New(client Client, log journal.Sink) *Engine {
	if log == nil {
		log = journal.Discard{}
	}
	return &Engine{client: client, log: log}
}

// Ingest fetches the task identified by rootID together with its comments
// and every transitively reachable subtask. A failure while reading the
// root task aborts the whole ingestion; a failure anywhere below the root
// is logged and drops only the affected subtree.
func (e *Engine) Ingest(ctx context.Context, rootID string) (*model.TaskTree, error) {
	return e.ingest(ctx, rootID, 0)
}

func (e *Engine) ingest(ctx context.Context, gid string, depth int) (*model.TaskTree, error) {
	// Only the root narrates progress; deep trees would otherwise flood
	// the journal.
	narrate := depth == 0

	if narrate {
		e.log.Log(fmt.Sprintf("Fetching task %s", gid), journal.SeverityInfo)
	}

	task, err := e.client.GetTask(ctx, gid)
	if err != nil {
		return nil, fmt.Errorf("fetch task %s: %w", gid, err)
	}

	activities, err := e.client.GetStories(ctx, gid)
	if err != nil {
		return nil, fmt.Errorf("fetch comments for task %s: %w", gid, err)
	}

	tree := &model.TaskTree{Task: *task}
	for _, a := range activities {
		if a.IsComment() {
			tree.Comments = append(tree.Comments, a)
		}
	}

	refs, err := e.client.GetSubtasks(ctx, gid)
	if err != nil {
		return nil, fmt.Errorf("list subtasks of task %s: %w", gid, err)
	}

	if narrate {
		e.log.Log(fmt.Sprintf("Found %d subtasks", len(refs)), journal.SeverityInfo)
	}

	for i, ref := range refs {
		if narrate {
			e.log.Log(fmt.Sprintf("Processing subtask %d/%d: %s", i+1, len(refs), ref.Name), journal.SeverityInfo)
		}

		child, err := e.ingest(ctx, ref.GID, depth+1)
		if err != nil {
			e.log.Log(fmt.Sprintf("Skipping subtask %q (%s): %v", ref.Name, ref.GID, err), journal.SeverityError)
			tree.SkippedSubtasks++
			continue
		}
		tree.Subtasks = append(tree.Subtasks, child)
	}

	if narrate {
		e.log.Log(fmt.Sprintf("Ingested %q with %d direct subtasks", task.Name, len(tree.Subtasks)), journal.SeveritySuccess)
	}

	return tree, nil
}
