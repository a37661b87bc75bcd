package commands

// Handler names produced by the grammars below.
const (
	HandlerLook        = "look"
	HandlerMap         = "map"
	HandlerMove        = "move"
	HandlerSay         = "say"
	HandlerQuit        = "quit"
	HandlerQuitNow     = "quit_now"
	HandlerSave        = "save"
	HandlerWho         = "who"
	HandlerScore       = "score"
	HandlerHelp        = "help"
	HandlerCreateRoom  = "create_room"
	HandlerCreateExit  = "create_exit"
	HandlerDestroyRoom = "destroy_room"
	HandlerDestroyExit = "destroy_exit"
	HandlerShutdown    = "admin_shutdown"
	HandlerWatch       = "admin_watch"

	MenuLogin = "login"
	MenuNew   = "new"
	MenuQuit  = "menu_quit"
)

const directionWords = `north|northeast|east|southeast|south|southwest|west|northwest|n|ne|e|se|s|sw|w|nw`

// WorldGrammar holds the general in-world commands. Matchers are tried in
// declaration order and must match the whole line.
var WorldGrammar = MustGrammar("world",
	Matcher{
		Name:    "look",
		Usage:   "LOOK [direction]",
		Help:    "Describe your surroundings, or the room in a direction.",
		Pattern: `(?:look|l)(?:\s+(?P<direction>\S+))?`,
		Handler: HandlerLook,
	},
	Matcher{
		Name:    "map",
		Usage:   "MAP [radius]",
		Help:    "Draw the rooms around you.",
		Pattern: `map(?:\s+(?P<radius>\d+))?`,
		Handler: HandlerMap,
	},
	Matcher{
		Name:    "move",
		Usage:   "MOVE|GO|WALK <direction>",
		Help:    "Walk through an exit.",
		Pattern: `(?:move|go|walk)\s+(?P<direction>\S+)`,
		Handler: HandlerMove,
	},
	Matcher{
		Name:    "direction",
		Usage:   "<direction>",
		Help:    "Walk through an exit (N, NE, E, SE, S, SW, W, NW).",
		Pattern: `(?P<direction>` + directionWords + `)`,
		Handler: HandlerMove,
	},
	Matcher{
		Name:    "say",
		Usage:   "SAY <text>",
		Help:    "Speak to everyone in the room.",
		Pattern: `(?:say\b|')\s*(?P<text>.*)`,
		Handler: HandlerSay,
	},
	Matcher{
		Name:       "qq",
		Usage:      "QQ",
		Help:       "Save and disconnect immediately.",
		Pattern:    `qq`,
		Handler:    HandlerQuitNow,
		Capability: CapabilityPlayer,
	},
	Matcher{
		Name:       "quit",
		Usage:      "QUIT",
		Help:       "Save and return to the menu.",
		Pattern:    `quit`,
		Handler:    HandlerQuit,
		Capability: CapabilityPlayer,
	},
	Matcher{
		Name:       "save",
		Usage:      "SAVE",
		Help:       "Save your character.",
		Pattern:    `save`,
		Handler:    HandlerSave,
		Capability: CapabilityPlayer,
	},
	Matcher{
		Name:    "who",
		Usage:   "WHO",
		Help:    "List everyone in the world.",
		Pattern: `who`,
		Handler: HandlerWho,
	},
	Matcher{
		Name:    "score",
		Usage:   "SCORE",
		Help:    "Show your character's condition.",
		Pattern: `score`,
		Handler: HandlerScore,
	},
	Matcher{
		Name:    "help",
		Usage:   "HELP",
		Help:    "List the commands available to you.",
		Pattern: `help|\?`,
		Handler: HandlerHelp,
	},
)

// EditorGrammar holds the map-editing commands. The map-editor flag is
// checked by each handler.
var EditorGrammar = MustGrammar("editor",
	Matcher{
		Name:       "create room",
		Usage:      "CREATE ROOM <direction>",
		Help:       "Build a new room next to this one.",
		Pattern:    `create\s+room\s+(?P<direction>\S+)`,
		Handler:    HandlerCreateRoom,
		Capability: CapabilityPlayer,
	},
	Matcher{
		Name:       "create exit",
		Usage:      "CREATE EXIT <direction>",
		Help:       "Open a one-way exit to the neighbouring room.",
		Pattern:    `create\s+exit\s+(?P<direction>\S+)`,
		Handler:    HandlerCreateExit,
		Capability: CapabilityPlayer,
	},
	Matcher{
		Name:       "destroy room",
		Usage:      "DESTROY ROOM <direction>",
		Help:       "Remove an empty, unconnected neighbouring room.",
		Pattern:    `destroy\s+room\s+(?P<direction>\S+)`,
		Handler:    HandlerDestroyRoom,
		Capability: CapabilityPlayer,
	},
	Matcher{
		Name:       "destroy exit",
		Usage:      "DESTROY EXIT <direction>",
		Help:       "Remove the exit in a direction.",
		Pattern:    `destroy\s+exit\s+(?P<direction>\S+)`,
		Handler:    HandlerDestroyExit,
		Capability: CapabilityPlayer,
	},
)

// AdminGrammar holds the administrator commands.
var AdminGrammar = MustGrammar("admin",
	Matcher{
		Name:       "admin shutdown",
		Usage:      "ADMIN SHUTDOWN",
		Help:       "Save everyone and stop the server.",
		Pattern:    `admin\s+shutdown`,
		Handler:    HandlerShutdown,
		Capability: CapabilityAdmin,
	},
	Matcher{
		Name:       "admin watch",
		Usage:      "ADMIN WATCH <name>",
		Help:       "Start or stop receiving everything a player sees.",
		Pattern:    `admin\s+watch\s+(?P<name>\S+)`,
		Handler:    HandlerWatch,
		Capability: CapabilityAdmin,
	},
)

// MenuGrammar is accepted at the welcome menu. Its commands are handled by
// the menu phase itself rather than the dispatcher.
var MenuGrammar = MustGrammar("menu",
	Matcher{
		Name:    "login",
		Usage:   "LOGIN [name]",
		Help:    "Enter the world with an existing character.",
		Pattern: `(?:login|1)(?:\s+(?P<name>\S+))?`,
		Handler: MenuLogin,
	},
	Matcher{
		Name:    "new",
		Usage:   "NEW [name]",
		Help:    "Create a new character.",
		Pattern: `(?:new|2)(?:\s+(?P<name>\S+))?`,
		Handler: MenuNew,
	},
	Matcher{
		Name:    "quit",
		Usage:   "QUIT",
		Help:    "Disconnect.",
		Pattern: `quit|qq|3`,
		Handler: MenuQuit,
	},
)

// WorldPipeline is resolved against input from a character in the world.
var WorldPipeline = Pipeline{WorldGrammar, EditorGrammar, AdminGrammar}

// MenuPipeline is resolved against input at the welcome menu.
var MenuPipeline = Pipeline{MenuGrammar}
