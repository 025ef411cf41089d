package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jrsteele09/go-todo-client/todos"
	"github.com/jrsteele09/go-todo-client/users"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(false)
	labelStyle = lipgloss.NewStyle().Bold(true).Width(10)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)

	priorityStyles = map[todos.Priority]lipgloss.Style{
		todos.PriorityExtreme:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		todos.PriorityModerate: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		todos.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

func renderTodos(list []todos.Todo) string {
	if len(list) == 0 {
		return faintStyle.Render("No todos")
	}
	lines := make([]string, 0, len(list))
	for i, t := range list {
		check := "[ ]"
		title := t.Title
		if t.IsCompleted {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		priority := priorityStyles[t.Priority].Render(fmt.Sprintf("%-8s", t.Priority))
		line := fmt.Sprintf("%3d. %s %s %s %s", i+1, check, priority, faintStyle.Render(fmt.Sprintf("%-10s #%d", t.TodoDate, t.ID)), title)
		if t.Description != "" {
			line += "\n" + strings.Repeat(" ", 9) + faintStyle.Render(t.Description)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderUser(u users.User) string {
	rows := []string{
		labelStyle.Render("Name") + u.FullName(),
		labelStyle.Render("Email") + u.Email,
	}
	optional := []struct{ label, value string }{
		{"Photo", u.Photo},
		{"Phone", u.ContactNumber},
		{"Address", u.Address},
		{"Birthday", u.Birthday},
		{"Bio", u.Bio},
	}
	for _, o := range optional {
		if o.value != "" {
			rows = append(rows, labelStyle.Render(o.label)+o.value)
		}
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func fieldLines(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, warnStyle.Render(k+": ")+fields[k])
	}
	return lines
}
