package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/roster/internal/logtail"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/users"
)

// activityLines is how much of the log file the activity overlay shows.
const activityLines = 200

// Messages

type usersLoadedMsg struct {
	seq   int
	users []users.User
	err   error
}

type createdMsg struct {
	user users.User
	cp   state.Checkpoint
	err  error
}

type deletedMsg struct {
	id  int
	cp  state.Checkpoint
	err error
}

type updatedMsg struct {
	user users.User
	cp   state.Checkpoint
	err  error
}

type activityMsg struct {
	lines []string
	err   error
}

// beginLoad starts a cancellable list fetch, aborting any earlier one.
func (m Model) beginLoad() tea.Cmd {
	if m.loader.cancel != nil {
		m.loader.cancel()
	}
	m.loader.seq++
	seq := m.loader.seq
	ctx, cancel := context.WithCancel(m.mount)
	m.loader.cancel = cancel

	m.store.BeginLoad()
	client := m.client
	return func() tea.Msg {
		list, err := client.List(ctx)
		return usersLoadedMsg{seq: seq, users: list, err: err}
	}
}

func (m *Model) handleLoaded(msg usersLoadedMsg) {
	if msg.seq != m.loader.seq {
		// Superseded by a newer load.
		return
	}
	if m.loader.cancel != nil {
		m.loader.cancel()
		m.loader.cancel = nil
	}
	switch {
	case msg.err == nil:
		m.loadedAt = time.Now()
		m.logger.Info("users loaded", zap.Int("count", len(msg.users)))
	case users.IsCanceled(msg.err):
		m.logger.Debug("users load canceled")
	default:
		m.logger.Warn("users load failed", zap.Error(msg.err))
	}
	m.preserveSelection(func() {
		m.store.FinishLoad(msg.users, msg.err)
	})
}

// mutationContext is detached from the mount context: only the list fetch is
// canceled on teardown.
func (m Model) mutationContext() context.Context {
	return context.WithoutCancel(m.ctx)
}

func (m *Model) createUser() tea.Cmd {
	var (
		placeholder users.User
		cp          state.Checkpoint
	)
	m.preserveSelection(func() {
		placeholder, cp = m.store.Create()
	})
	m.logger.Info("optimistic create", zap.String("name", placeholder.Name))

	ctx, client := m.mutationContext(), m.client
	return func() tea.Msg {
		saved, err := client.Create(ctx, placeholder)
		return createdMsg{user: saved, cp: cp, err: err}
	}
}

func (m *Model) handleCreated(msg createdMsg) {
	m.preserveSelection(func() {
		if msg.err != nil {
			m.logger.Warn("create failed, rolling back", zap.Error(msg.err))
			m.store.Fail(msg.cp, msg.err)
			return
		}
		m.logger.Info("user created", zap.Int("id", msg.user.ID))
		m.store.CreateSucceeded(msg.user, m.reconcile)
	})
}

func (m *Model) deleteSelected() tea.Cmd {
	target, ok := m.selectedUser()
	if !ok {
		return nil
	}
	var cp state.Checkpoint
	m.preserveSelection(func() {
		cp = m.store.Delete(target.ID)
	})
	m.logger.Info("optimistic delete", zap.Int("id", target.ID))

	ctx, client := m.mutationContext(), m.client
	return func() tea.Msg {
		err := client.Delete(ctx, target.ID)
		return deletedMsg{id: target.ID, cp: cp, err: err}
	}
}

func (m *Model) handleDeleted(msg deletedMsg) {
	if msg.err == nil {
		return
	}
	m.logger.Warn("delete failed, rolling back", zap.Int("id", msg.id), zap.Error(msg.err))
	m.preserveSelection(func() {
		m.store.Fail(msg.cp, msg.err)
	})
}

func (m *Model) editSelected() {
	target, ok := m.selectedUser()
	if !ok || !m.store.BeginEdit(target.ID) {
		return
	}
	m.input.SetValue(m.store.Snapshot().Draft)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) confirmEdit() tea.Cmd {
	updated, cp, ok := m.store.ConfirmEdit()
	m.input.Blur()
	m.input.SetValue("")
	if !ok {
		return nil
	}
	m.logger.Info("optimistic update", zap.Int("id", updated.ID))

	ctx, client := m.mutationContext(), m.client
	return func() tea.Msg {
		_, err := client.Update(ctx, updated)
		return updatedMsg{user: updated, cp: cp, err: err}
	}
}

func (m *Model) handleUpdated(msg updatedMsg) {
	if msg.err == nil {
		return
	}
	m.logger.Warn("update failed, rolling back", zap.Int("id", msg.user.ID), zap.Error(msg.err))
	m.preserveSelection(func() {
		m.store.Fail(msg.cp, msg.err)
	})
}

func readActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		raw, err := logtail.Read(path, activityLines)
		if err != nil {
			return activityMsg{err: err}
		}
		lines := make([]string, len(raw))
		for i, line := range raw {
			lines[i] = logtail.Parse(line).Summary()
		}
		return activityMsg{lines: lines}
	}
}
