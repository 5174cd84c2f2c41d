package catalog

// DefaultLabels is the retail product catalog shipped with the exporter.
var DefaultLabels = []Label{
	{Name: "Salad Green", Color: "#3df53d"},
	{Name: "Salad Orange", Color: "#ff6a4d"},
	{Name: "Salad Purple", Color: "#b83df5"},
	{Name: "Salad SkyBlue", Color: "#33ddff"},
	{Name: "Wrap Blue", Color: "#34d1b7"},
	{Name: "Wrap Brown", Color: "#910014"},
	{Name: "Wrap Green", Color: "#66ff66"},
	{Name: "Wrap Yellow", Color: "#fafa37"},
	{Name: "Onigiri Brown", Color: "#b25050"},
	{Name: "Onigiri Red", Color: "#ff0007"},
	{Name: "Onigiri Blue", Color: "#000000"},
	{Name: "SW Pink", Color: "#ff00cc"},
	{Name: "SW Red", Color: "#ff040f"},
	{Name: "SW Yellow", Color: "#fafa37"},
	{Name: "SW Blue", Color: "#3208ff"},
	{Name: "SW Orange", Color: "#ff6a4d"},
	{Name: "Minisalad Green", Color: "#24b353"},
	{Name: "Minisalad Purple", Color: "#b83df5"},
	{Name: "Minisalad Yellow", Color: "#fafa37"},
	{Name: "SW Peach", Color: "#ed8a5f"},
	{Name: "Yogurt Blue", Color: "#3d3df5"},
	{Name: "Yogurt Yellow", Color: "#fafa37"},
	{Name: "Oats Purple", Color: "#b83df5"},
	{Name: "Oats Blue", Color: "#33ddff"},
	{Name: "Coca Cola", Color: "#f9060e"},
	{Name: "100 Plus", Color: "#fe9254"},
	{Name: "Cakes", Color: "#24b353"},
	{Name: "Sandwiches", Color: "#ffcc33"},
	{Name: "Onigiri", Color: "#ddff33"},
	{Name: "Cold Brew Coffee", Color: "#5e5e5e"},
	{Name: "Bottled Tea", Color: "#ddff33"},
	{Name: "Mineral Water", Color: "#7758ff"},
	{Name: "Bottled Milo", Color: "#3df53d"},
	{Name: "Blackcurrent cans", Color: "#b83df5"},
}

// Default returns a catalog built from DefaultLabels.
func Default() *Catalog {
	return MustNew(DefaultLabels)
}
