// Package tui provides the terminal user interface for the todo lists.
package tui

import tea "github.com/charmbracelet/bubbletea"

// Key represents a key binding.
type Key struct {
	Key  string
	Help string
}

// Keymap contains all key bindings for the application.
type Keymap struct {
	// Navigation
	Up       Key
	Down     Key
	Top      Key
	Bottom   Key
	Left     Key
	Right    Key
	NextList Key
	PrevList Key
	HalfUp   Key
	HalfDown Key

	// General
	Back    Key
	Quit    Key
	Help    Key
	Refresh Key
	Logout  Key

	// Task actions
	AddTask         Key
	EditTask        Key
	EditDescription Key
	EditDeadline    Key
	CyclePriority   Key
	ToggleTask      Key
	DeleteTask      Key
	CopyTask        Key
	MoveTaskDown    Key
	MoveTaskUp      Key

	// List actions
	NewList       Key
	RenameList    Key
	DeleteList    Key
	MoveListLeft  Key
	MoveListRight Key
	FilterAll     Key
	FilterActive  Key
	FilterDone    Key
}

// Actions returned by KeyState.HandleKey.
const (
	ActionUp              = "up"
	ActionDown            = "down"
	ActionTop             = "top"
	ActionBottom          = "bottom"
	ActionLeft            = "left"
	ActionRight           = "right"
	ActionHalfUp          = "half_up"
	ActionHalfDown        = "half_down"
	ActionBack            = "back"
	ActionQuit            = "quit"
	ActionHelp            = "help"
	ActionRefresh         = "refresh"
	ActionLogout          = "logout"
	ActionAddTask         = "add_task"
	ActionEditTask        = "edit_task"
	ActionEditDescription = "edit_description"
	ActionEditDeadline    = "edit_deadline"
	ActionCyclePriority   = "cycle_priority"
	ActionToggle          = "toggle"
	ActionDeleteTask      = "delete_task"
	ActionCopy            = "copy"
	ActionMoveTaskDown    = "move_task_down"
	ActionMoveTaskUp      = "move_task_up"
	ActionNewList         = "new_list"
	ActionRenameList      = "rename_list"
	ActionDeleteList      = "delete_list"
	ActionMoveListLeft    = "move_list_left"
	ActionMoveListRight   = "move_list_right"
	ActionFilterAll       = "filter_all"
	ActionFilterActive    = "filter_active"
	ActionFilterDone      = "filter_completed"
)

// DefaultKeymap returns the default Vim-style key bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Up:       Key{Key: "k", Help: "up"},
		Down:     Key{Key: "j", Help: "down"},
		Top:      Key{Key: "g", Help: "top (gg)"},
		Bottom:   Key{Key: "G", Help: "bottom"},
		Left:     Key{Key: "h", Help: "previous list"},
		Right:    Key{Key: "l", Help: "next list"},
		NextList: Key{Key: "tab", Help: "next list"},
		PrevList: Key{Key: "shift+tab", Help: "previous list"},
		HalfUp:   Key{Key: "ctrl+u", Help: "half page up"},
		HalfDown: Key{Key: "ctrl+d", Help: "half page down"},

		Back:    Key{Key: "esc", Help: "back"},
		Quit:    Key{Key: "q", Help: "quit"},
		Help:    Key{Key: "?", Help: "help"},
		Refresh: Key{Key: "r", Help: "refresh"},
		Logout:  Key{Key: "O", Help: "log out"},

		AddTask:         Key{Key: "a", Help: "add task"},
		EditTask:        Key{Key: "e", Help: "edit title"},
		EditDescription: Key{Key: "i", Help: "edit description"},
		EditDeadline:    Key{Key: "t", Help: "edit deadline"},
		CyclePriority:   Key{Key: "p", Help: "cycle priority"},
		ToggleTask:      Key{Key: "x", Help: "complete/uncomplete"},
		DeleteTask:      Key{Key: "d", Help: "delete (dd)"},
		CopyTask:        Key{Key: "y", Help: "copy title"},
		MoveTaskDown:    Key{Key: "J", Help: "move task down"},
		MoveTaskUp:      Key{Key: "K", Help: "move task up"},

		NewList:       Key{Key: "n", Help: "new list"},
		RenameList:    Key{Key: "E", Help: "rename list"},
		DeleteList:    Key{Key: "D", Help: "delete list"},
		MoveListLeft:  Key{Key: "H", Help: "move list left"},
		MoveListRight: Key{Key: "L", Help: "move list right"},
		FilterAll:     Key{Key: "1", Help: "show all"},
		FilterActive:  Key{Key: "2", Help: "show active"},
		FilterDone:    Key{Key: "3", Help: "show completed"},
	}
}

// KeyState tracks multi-key sequences (like 'gg' or 'dd').
type KeyState struct {
	LastKey  string
	WaitingG bool // Waiting for second 'g' in 'gg'
	WaitingD bool // Waiting for second 'd' in 'dd'
}

// HandleKey processes a key press and returns the action to take and
// whether the key was consumed. Without vim mode the letter navigation keys
// are unbound and a single 'd' deletes.
func (ks *KeyState) HandleKey(msg tea.KeyMsg, keymap Keymap, vim bool) (string, bool) {
	key := msg.String()

	if ks.WaitingG {
		ks.WaitingG = false
		if key == "g" {
			return ActionTop, true
		}
	}

	if ks.WaitingD {
		ks.WaitingD = false
		if key == "d" {
			return ActionDeleteTask, true
		}
	}

	if vim {
		switch key {
		case keymap.Top.Key:
			ks.WaitingG = true
			ks.LastKey = key
			return "", true
		case keymap.DeleteTask.Key:
			ks.WaitingD = true
			ks.LastKey = key
			return "", true
		case keymap.Up.Key:
			return ActionUp, true
		case keymap.Down.Key:
			return ActionDown, true
		case keymap.Left.Key:
			return ActionLeft, true
		case keymap.Right.Key:
			return ActionRight, true
		case keymap.Bottom.Key:
			return ActionBottom, true
		}
	} else if key == keymap.DeleteTask.Key {
		return ActionDeleteTask, true
	}

	switch key {
	case "up":
		return ActionUp, true
	case "down":
		return ActionDown, true
	case "left", keymap.PrevList.Key:
		return ActionLeft, true
	case "right", keymap.NextList.Key:
		return ActionRight, true
	case "home":
		return ActionTop, true
	case "end":
		return ActionBottom, true
	case keymap.HalfUp.Key:
		return ActionHalfUp, true
	case keymap.HalfDown.Key:
		return ActionHalfDown, true
	case keymap.Back.Key:
		return ActionBack, true
	case keymap.Quit.Key, "ctrl+c":
		return ActionQuit, true
	case keymap.Help.Key:
		return ActionHelp, true
	case keymap.Refresh.Key:
		return ActionRefresh, true
	case keymap.Logout.Key:
		return ActionLogout, true
	case keymap.AddTask.Key:
		return ActionAddTask, true
	case keymap.EditTask.Key, "enter":
		return ActionEditTask, true
	case keymap.EditDescription.Key:
		return ActionEditDescription, true
	case keymap.EditDeadline.Key:
		return ActionEditDeadline, true
	case keymap.CyclePriority.Key:
		return ActionCyclePriority, true
	case keymap.ToggleTask.Key, " ":
		return ActionToggle, true
	case keymap.CopyTask.Key:
		return ActionCopy, true
	case keymap.MoveTaskDown.Key:
		return ActionMoveTaskDown, true
	case keymap.MoveTaskUp.Key:
		return ActionMoveTaskUp, true
	case keymap.NewList.Key:
		return ActionNewList, true
	case keymap.RenameList.Key:
		return ActionRenameList, true
	case keymap.DeleteList.Key:
		return ActionDeleteList, true
	case keymap.MoveListLeft.Key:
		return ActionMoveListLeft, true
	case keymap.MoveListRight.Key:
		return ActionMoveListRight, true
	case keymap.FilterAll.Key:
		return ActionFilterAll, true
	case keymap.FilterActive.Key:
		return ActionFilterActive, true
	case keymap.FilterDone.Key:
		return ActionFilterDone, true
	}

	return "", false
}

// Reset clears any pending multi-key sequences.
func (ks *KeyState) Reset() {
	ks.WaitingG = false
	ks.WaitingD = false
	ks.LastKey = ""
}

// helpLeftSections are the help sections shown in the first column.
var helpLeftSections = []string{"Navigation", "General"}

// HelpItems returns a slice of key-description pairs for the help view.
func (k Keymap) HelpItems(vim bool) [][]string {
	nav := "↑/↓"
	lists := "←/→, " + k.NextList.Key
	top := "home/end"
	del := k.DeleteTask.Key
	if vim {
		nav = k.Up.Key + "/" + k.Down.Key + ", " + nav
		lists = k.Left.Key + "/" + k.Right.Key + ", " + lists
		top = "gg/" + k.Bottom.Key
		del = "dd"
	}

	return [][]string{
		{"Navigation", ""},
		{nav, "Move up/down"},
		{lists, "Switch list"},
		{top, "Go to top/bottom"},
		{k.HalfUp.Key + "/" + k.HalfDown.Key, "Scroll half page"},
		{"", ""},
		{"General", ""},
		{k.Refresh.Key, "Refresh data"},
		{k.Logout.Key, "Log out"},
		{k.Help.Key, "Toggle help"},
		{k.Back.Key, "Cancel / dismiss error"},
		{k.Quit.Key, "Quit"},
		{"", ""},
		{"Tasks", ""},
		{k.AddTask.Key, "Add task"},
		{k.EditTask.Key + "/enter", "Edit title"},
		{k.EditDescription.Key, "Edit description"},
		{k.EditDeadline.Key, "Edit deadline"},
		{k.CyclePriority.Key, "Cycle priority"},
		{k.ToggleTask.Key + "/space", "Complete/uncomplete"},
		{del, "Delete task"},
		{k.CopyTask.Key, "Copy title"},
		{k.MoveTaskUp.Key + "/" + k.MoveTaskDown.Key, "Move task up/down"},
		{"", ""},
		{"Lists", ""},
		{k.NewList.Key, "New list"},
		{k.RenameList.Key, "Rename list"},
		{k.DeleteList.Key, "Delete list"},
		{k.MoveListLeft.Key + "/" + k.MoveListRight.Key, "Move list left/right"},
		{k.FilterAll.Key + "/" + k.FilterActive.Key + "/" + k.FilterDone.Key, "All/Active/Completed"},
	}
}
