package namegen

// Track titles: 48 x 64 x 40 = 122,880 distinct values.
var trackAdjectives = []string{
	"Silent", "Electric", "Golden", "Broken", "Hollow", "Crimson", "Distant", "Velvet",
	"Endless", "Fading", "Frozen", "Burning", "Midnight", "Neon", "Paper", "Quiet",
	"Restless", "Savage", "Secret", "Shallow", "Silver", "Sleepless", "Slow", "Stolen",
	"Sudden", "Sweet", "Tender", "Twisted", "Violet", "Wandering", "Wild", "Wired",
	"Amber", "Bitter", "Blue", "Cold", "Copper", "Dusty", "Early", "Faded",
	"Gentle", "Glass", "Heavy", "Hidden", "Lonely", "Lucky", "Mellow", "Northern",
}

var trackNouns = []string{
	"Heart", "River", "Summer", "Highway", "Mirror", "Ocean", "Engine", "Garden",
	"Shadow", "Signal", "Thunder", "Window", "Harbor", "Letter", "Machine", "Mountain",
	"Paradise", "Rain", "Satellite", "Season", "Skyline", "Storm", "Stranger", "Sunrise",
	"Tide", "Valley", "Voice", "Winter", "Wire", "Wolf", "Anthem", "Avenue",
	"Bridge", "Canyon", "Circus", "Compass", "Diamond", "Dream", "Echo", "Ember",
	"Fever", "Fire", "Flame", "Forest", "Ghost", "Horizon", "Island", "Kingdom",
	"Lantern", "Lullaby", "Meadow", "Memory", "Moon", "Motel", "Orbit", "Parade",
	"Pulse", "Radio", "Ribbon", "Runaway", "Sparrow", "Station", "Telescope", "Tower",
}

var trackContexts = []string{
	"(Live)", "(Remastered)", "(Acoustic)", "(Demo)", "(Radio Edit)",
	"(Extended Mix)", "(Reprise)", "(Interlude)", "(Instrumental)", "(Unplugged)",
	"(Mono)", "(Stereo Mix)", "(Alternate Take)", "(Session)", "(Night Version)",
	"(Club Mix)", "(Piano Version)", "(Orchestral)", "(Rehearsal)", "(Early Version)",
	"(B-Side)", "(Single Version)", "(Album Version)", "(Outtake)", "(Dub)",
	"(Edit)", "(Rework)", "(Redux)", "(Overture)", "(Finale)",
	"(Part I)", "(Part II)", "(Part III)", "(Intro)", "(Outro)",
	"(Bonus Track)", "(Lo-Fi)", "(Studio)", "(Home Recording)", "(Take 2)",
}

// Album titles: 32 x 40 x 24 = 30,720 distinct values.
var albumAdjectives = []string{
	"Electric", "Northern", "Golden", "Hidden", "Modern", "Lost", "Secret", "Broken",
	"Endless", "Wild", "Quiet", "Velvet", "Neon", "Distant", "Burning", "Frozen",
	"Savage", "Sacred", "Strange", "Bright", "Dark", "Silver", "Crimson", "Hollow",
	"Paper", "Glass", "Iron", "Royal", "Wandering", "Faded", "Open", "Final",
}

var albumNouns = []string{
	"Frontier", "Tapes", "Sessions", "Chronicles", "Horizons", "Letters", "Signals", "Stories",
	"Rooms", "Songs", "Waves", "Dreams", "Machines", "Gardens", "Hours", "Nights",
	"Rivers", "Cities", "Oceans", "Mirrors", "Shadows", "Echoes", "Roads", "Islands",
	"Lights", "Colors", "Visions", "Seasons", "Maps", "Voices", "Engines", "Kingdoms",
	"Hearts", "Years", "Skies", "Parades", "Tides", "Windows", "Bridges", "Fields",
}

var albumContexts = []string{
	"Vol. 1", "Vol. 2", "Vol. 3", "Deluxe Edition",
	"Expanded Edition", "Anniversary Edition", "Live at the Forum", "Live in Berlin",
	"Live in Tokyo", "Revisited", "Redux", "Unplugged",
	"Remastered", "Collected", "Part One", "Part Two",
	"The Lost Reels", "Demos", "B-Sides", "Instrumentals",
	"Remixes", "Acoustic", "Director's Cut", "Complete",
}

// TrackTitles returns the generator used for track titles.
func TrackTitles() *TitleGenerator {
	return NewTitleGenerator(trackAdjectives, trackNouns, trackContexts)
}

// AlbumTitles returns the generator used for album titles.
func AlbumTitles() *TitleGenerator {
	return NewTitleGenerator(albumAdjectives, albumNouns, albumContexts)
}
