package commands

// Chat REPL commands
const (
	replQuit    = "quit"
	replExit    = "exit"
	replClear   = "clear"
	replMode    = "mode"
	replHistory = "history"
	replHelp    = "help"
)

const (
	probingLabel     = "Checking AI backends..."
	chatPrompt       = "firewatch> "
	chatHistoryFile  = "chat_history"
	msgHistoryClear  = "Conversation history cleared."
	msgChatGoodbye   = "Stay safe."
	msgNoResultRows  = "[]"
	ErrUnknownView   = "unknown view %q; use overview, evacuees, zones, resources or search"
	ErrSearchTerm    = "search needs a term: firewatch view search <term>"
	ErrSQLStatement  = "sql needs a statement: firewatch sql \"SELECT ...\""
	ErrDoctorFailure = "doctor found failing checks"
)
