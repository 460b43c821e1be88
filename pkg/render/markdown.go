// Package render turns an ingested task tree into a Markdown document.
// Output depends only on the tree; rendering the same tree twice yields
// identical bytes.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/asanadoc/asanadoc/pkg/model"
)

const (
	descriptionPlaceholder = "_No description provided._"
	unassignedLabel        = "Unassigned"
	noDateLabel            = "No date"
	completeMark           = "✅ Complete"
	incompleteMark         = "⬜ Incomplete"

	dateLayout      = "Jan 2, 2006"
	timestampLayout = "Jan 2, 2006 at 3:04 PM"
)

// Markdown renders the tree as a full document: title, metadata line,
// description, root comments, then the recursively rendered subtask tree.
// The Comments and Subtasks sections are omitted entirely when empty; the
// Description section is always present.
func Markdown(tree *model.TaskTree) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", tree.Name)
	fmt.Fprintf(&b, "[View in Asana](%s) | Assignee: %s | Due: %s | %s\n\n",
		tree.PermalinkURL, assigneeName(tree.Assignee), dueDate(tree.DueOn), statusMark(tree.Completed))

	b.WriteString("## Description\n\n")
	if tree.Notes != "" {
		b.WriteString(tree.Notes)
	} else {
		b.WriteString(descriptionPlaceholder)
	}
	b.WriteString("\n\n")

	if len(tree.Comments) > 0 {
		b.WriteString("## Comments\n\n")
		for _, c := range tree.Comments {
			fmt.Fprintf(&b, "### %s on %s\n\n", authorName(c.Author), c.CreatedAt.Format(timestampLayout))
			b.WriteString(c.Text)
			b.WriteString("\n\n---\n\n")
		}
	}

	if len(tree.Subtasks) > 0 {
		b.WriteString("## Subtasks\n\n")
		writeSubtasks(&b, tree.Subtasks, 1)
	}

	return b.String()
}

// writeSubtasks renders a sibling list at the given nesting level. Level 1
// is the first level under the root and renders at heading depth 3;
// heading depth grows by one per level.
func writeSubtasks(b *strings.Builder, tasks []*model.TaskTree, level int) {
	heading := strings.Repeat("#", level+2)

	for i, t := range tasks {
		fmt.Fprintf(b, "%s %d. %s %s\n\n", heading, i+1, statusGlyph(t.Completed), t.Name)
		fmt.Fprintf(b, "*Assignee: %s · Due: %s*\n\n", assigneeName(t.Assignee), dueDate(t.DueOn))

		if t.Notes != "" {
			b.WriteString(blockquote(t.Notes))
			b.WriteString("\n\n")
		}

		if len(t.Comments) > 0 {
			b.WriteString("**Comments:**\n\n")
			for _, c := range t.Comments {
				fmt.Fprintf(b, "- **%s:** %s\n", authorName(c.Author), collapse(c.Text))
			}
			b.WriteString("\n")
		}

		if len(t.Subtasks) > 0 {
			writeSubtasks(b, t.Subtasks, level+1)
		}

		// Spacer closing this subtask's block, last sibling included.
		b.WriteString("\n")
	}
}

func assigneeName(u *model.User) string {
	if u == nil || u.Name == "" {
		return unassignedLabel
	}
	return u.Name
}

func authorName(u *model.User) string {
	if u == nil || u.Name == "" {
		return "Unknown"
	}
	return u.Name
}

func dueDate(t *time.Time) string {
	if t == nil {
		return noDateLabel
	}
	return t.Format(dateLayout)
}

func statusMark(completed bool) string {
	if completed {
		return completeMark
	}
	return incompleteMark
}

func statusGlyph(completed bool) string {
	if completed {
		return "✅"
	}
	return "⬜"
}

// blockquote prefixes every line of text so multi-line notes stay inside
// one quote block.
func blockquote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// collapse flattens internal line breaks so a comment fits one list bullet.
func collapse(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
