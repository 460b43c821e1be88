package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanadoc/asanadoc/pkg/journal"
	"github.com/asanadoc/asanadoc/pkg/model"
)

// fakeClient serves a canned task graph and counts remote reads. Any GID
// present in fail aborts that task's metadata fetch.
type fakeClient struct {
	tasks    map[string]*model.Task
	stories  map[string][]model.Activity
	subtasks map[string][]model.TaskRef
	fail     map[string]error

	calls int
}

func (f *fakeClient) GetTask(ctx context.Context, gid string) (*model.Task, error) {
	f.calls++
	if err, ok := f.fail[gid]; ok {
		return nil, err
	}
	task, ok := f.tasks[gid]
	if !ok {
		return nil, fmt.Errorf("no such task %s", gid)
	}
	return task, nil
}

func (f *fakeClient) GetStories(ctx context.Context, gid string) ([]model.Activity, error) {
	f.calls++
	return f.stories[gid], nil
}

func (f *fakeClient) GetSubtasks(ctx context.Context, gid string) ([]model.TaskRef, error) {
	f.calls++
	return f.subtasks[gid], nil
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		tasks:    make(map[string]*model.Task),
		stories:  make(map[string][]model.Activity),
		subtasks: make(map[string][]model.TaskRef),
		fail:     make(map[string]error),
	}
}

func (f *fakeClient) addTask(gid, name string, children ...string) {
	f.tasks[gid] = &model.Task{GID: gid, Name: name}
	for _, c := range children {
		f.subtasks[gid] = append(f.subtasks[gid], model.TaskRef{GID: c, Name: "task " + c})
	}
}

func TestIngestLeafTaskDoesExactlyThreeReads(t *testing.T) {
	client := newFakeClient()
	client.addTask("1", "Root")

	tree, err := New(client, nil).Ingest(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, "Root", tree.Name)
	assert.Empty(t, tree.Subtasks)
	assert.Equal(t, 3, client.calls)
}

func TestIngestFiltersNonCommentActivity(t *testing.T) {
	client := newFakeClient()
	client.addTask("1", "Root")
	client.stories["1"] = []model.Activity{
		{GID: "s1", Subtype: model.CommentSubtype, Text: "real comment"},
		{GID: "s2", Subtype: "assigned", Text: "assigned to Ada"},
		{GID: "s3", Subtype: model.CommentSubtype, Text: "another comment"},
		{GID: "s4", Subtype: "due_date_changed", Text: "moved the date"},
	}

	tree, err := New(client, nil).Ingest(context.Background(), "1")
	require.NoError(t, err)

	require.Len(t, tree.Comments, 2)
	assert.Equal(t, "s1", tree.Comments[0].GID)
	assert.Equal(t, "s3", tree.Comments[1].GID)
}

func TestIngestBuildsNestedTreeInListingOrder(t *testing.T) {
	client := newFakeClient()
	client.addTask("1", "Root", "2", "3")
	client.addTask("2", "Child A", "4")
	client.addTask("3", "Child B")
	client.addTask("4", "Grandchild")

	tree, err := New(client, nil).Ingest(context.Background(), "1")
	require.NoError(t, err)

	require.Len(t, tree.Subtasks, 2)
	assert.Equal(t, "Child A", tree.Subtasks[0].Name)
	assert.Equal(t, "Child B", tree.Subtasks[1].Name)
	require.Len(t, tree.Subtasks[0].Subtasks, 1)
	assert.Equal(t, "Grandchild", tree.Subtasks[0].Subtasks[0].Name)
}

func TestIngestDropsFailedChildAndContinues(t *testing.T) {
	client := newFakeClient()
	client.addTask("1", "Root", "2", "3", "4")
	client.addTask("2", "First")
	client.addTask("4", "Third")
	client.fail["3"] = errors.New("boom")

	sink := &journal.Memory{}
	tree, err := New(client, sink).Ingest(context.Background(), "1")
	require.NoError(t, err)

	require.Len(t, tree.Subtasks, 2)
	assert.Equal(t, "First", tree.Subtasks[0].Name)
	assert.Equal(t, "Third", tree.Subtasks[1].Name)
	assert.Equal(t, 1, tree.SkippedSubtasks)

	errs := sink.BySeverity(journal.SeverityError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "task 3")
}

func TestIngestRootFailurePropagates(t *testing.T) {
	client := newFakeClient()
	client.fail["1"] = errors.New("no access")

	sink := &journal.Memory{}
	_, err := New(client, sink).Ingest(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access")

	assert.Empty(t, sink.BySeverity(journal.SeveritySuccess))
}

func TestIngestNarratesOnlyAtRootLevel(t *testing.T) {
	client := newFakeClient()
	client.addTask("1", "Root", "2")
	client.addTask("2", "Child", "3")
	client.addTask("3", "Grandchild")

	sink := &journal.Memory{}
	_, err := New(client, sink).Ingest(context.Background(), "1")
	require.NoError(t, err)

	var processing []string
	for _, e := range sink.Entries {
		if strings.HasPrefix(e.Message, "Processing subtask") {
			processing = append(processing, e.Message)
		}
	}
	// Only the root's single direct subtask is narrated; the child's own
	// recursion is silent.
	require.Len(t, processing, 1)
	assert.Equal(t, "Processing subtask 1/1: task 2", processing[0])
}

func TestIngestProgressOrdering(t *testing.T) {
	client := newFakeClient()
	client.addTask("1", "Root", "2", "3")
	client.addTask("2", "A")
	client.addTask("3", "B")

	sink := &journal.Memory{}
	_, err := New(client, sink).Ingest(context.Background(), "1")
	require.NoError(t, err)

	var messages []string
	for _, e := range sink.Entries {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"Fetching task 1",
		"Found 2 subtasks",
		"Processing subtask 1/2: task 2",
		"Processing subtask 2/2: task 3",
		`Ingested "Root" with 2 direct subtasks`,
	}, messages)

	last := sink.Entries[len(sink.Entries)-1]
	assert.Equal(t, journal.SeveritySuccess, last.Severity)
	assert.WithinDuration(t, time.Now(), last.Time, time.Minute)
}
