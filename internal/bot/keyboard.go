package bot

import "stockbot/internal/model"

// ReplyKeyboardMarkup renders a grid of one-tap reply buttons.
type ReplyKeyboardMarkup struct {
	Keyboard       [][]string `json:"keyboard"`
	ResizeKeyboard bool       `json:"resize_keyboard"`
}

// ReplyKeyboardRemove hides a previously sent keyboard.
type ReplyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

// Menu button labels. The router matches incoming text against these.
const (
	btnAdd       = "Add item"
	btnEdit      = "Edit item"
	btnRemove    = "Remove item"
	btnView      = "View inventory"
	btnSearch    = "Search item"
	btnExport    = "Export report"
	btnReceive   = "Receive goods"
	btnFill      = "Fill fridge"
	btnCount     = "Stock count"
	btnCheck     = "Check stock"
	btnYes       = "Yes"
	btnNo        = "No"
	cmdStart     = "/start"
	cmdHelp      = "/help"
	cmdCancel    = "/cancel"
	cmdMovements = "/movements"
)

func mainKeyboard() ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard: [][]string{
			{btnAdd, btnEdit},
			{btnRemove, btnView},
			{btnSearch, btnExport},
			{btnReceive, btnFill},
			{btnCount, btnCheck},
			{cmdHelp},
		},
		ResizeKeyboard: true,
	}
}

func locationsKeyboard() ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard: [][]string{
			{model.Refrigerator1.Title(), model.Refrigerator2.Title()},
			{model.Refrigerator3.Title(), model.Cupboard.Title()},
			{cmdCancel},
		},
		ResizeKeyboard: true,
	}
}

func yesNoKeyboard() ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard: [][]string{
			{btnYes, btnNo},
			{cmdCancel},
		},
		ResizeKeyboard: true,
	}
}

// itemsKeyboard lays item names out two per row, with /cancel at the bottom.
func itemsKeyboard(names []string) ReplyKeyboardMarkup {
	var keyboard [][]string
	var row []string
	for _, name := range names {
		row = append(row, name)
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}
	keyboard = append(keyboard, []string{cmdCancel})
	return ReplyKeyboardMarkup{Keyboard: keyboard, ResizeKeyboard: true}
}

func removeKeyboard() ReplyKeyboardRemove {
	return ReplyKeyboardRemove{RemoveKeyboard: true}
}
