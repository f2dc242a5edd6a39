package shell

import (
	"fmt"
	"io"
	"strings"

	"HexHarvest/internal/island/app"
	"HexHarvest/internal/island/domain"
)

const cellWidth = 7 // "|🧱 12|"，emoji 占两列

var emojis = map[domain.Resource]string{
	domain.Brick: "🧱",
	domain.Wood:  "🪵 ",
	domain.Wheat: "🌾",
	domain.Sheep: "🐑",
	domain.Ore:   "💎",
}

func Emoji(r domain.Resource) string {
	return emojis[r]
}

// RenderMap 按行宽分行输出地图，沙漠格留空，最后列出已拥有的地块。
func RenderMap(w io.Writer, m *domain.TileMap, rowWidth int) {
	if rowWidth <= 0 {
		rowWidth = domain.DefaultRowWidth
	}
	rule := strings.Repeat("=", cellWidth*rowWidth)

	fmt.Fprintln(w, "MAP:")
	fmt.Fprintln(w, rule)
	for _, row := range m.Rows(rowWidth) {
		for _, t := range row {
			r, ok := t.Yield()
			if !ok {
				fmt.Fprint(w, "|     |")
				continue
			}
			fmt.Fprintf(w, "|%s %2d|", Emoji(r), t.Number())
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, rule)
	}

	for _, idx := range m.Owned() {
		fmt.Fprintf(w, "Owned Property: %d\n", idx)
	}
	fmt.Fprintln(w)
}

// RenderResources 一行列出全部资源。
func RenderResources(w io.Writer, l *domain.Ledger) {
	var b strings.Builder
	for _, r := range domain.Resources {
		fmt.Fprintf(&b, "|%s=%d|", Emoji(r), l.Get(r))
	}
	fmt.Fprintln(w, b.String())
	fmt.Fprintln(w)
}

func RenderRoll(w io.Writer, v app.RollView, yields []domain.Yield) {
	fmt.Fprintf(w, "Dice rolled %d + %d, a sum of: %d\n", v.Dice[0], v.Dice[1], v.Sum)
	if len(yields) == 0 {
		fmt.Fprintln(w, "No property produced this turn.")
		return
	}
	for _, y := range yields {
		fmt.Fprintf(w, "Your property made you some %s! You got %d\n", Emoji(y.Resource), y.Amount)
	}
}

const helpText = `Commands:
  /map          show the island
  /resources    show your resources
  /build <n>    register property on tile n
  /roll         roll the dice and collect resources
  /help         show this help
  /quit         save and exit`

func RenderHelp(w io.Writer) {
	fmt.Fprintln(w, helpText)
}

func RenderUnknown(w io.Writer) {
	fmt.Fprintln(w, "Your command doesn't match any existing commands.")
	fmt.Fprintln(w, "Try running /resources, /build <n>, /map, /roll or /help")
}
