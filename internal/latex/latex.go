// Package latex renders a practical subset of LaTeX math to static HTML:
// symbol substitution, superscripts/subscripts, fractions, roots, and text
// groups. Expressions outside the subset degrade to the raw delimited
// source wrapped in an error span; Render never fails.
//
// Configuration is an explicit Options value passed at construction.
// There is no package-level mutable state.
package latex

import (
	"fmt"
	"strings"
)

// Options configures a Renderer.
type Options struct {
	// CSS class names emitted on the produced markup
	InlineClass  string
	DisplayClass string
	ErrorClass   string
}

// DefaultOptions returns the class names used by the exported stylesheet.
func DefaultOptions() Options {
	return Options{
		InlineClass:  "math-inline",
		DisplayClass: "math-display",
		ErrorClass:   "math-error",
	}
}

// Renderer converts LaTeX source to markup.
type Renderer struct {
	options Options
}

// NewRenderer constructs a renderer from explicit options.
func NewRenderer(options Options) *Renderer {
	return &Renderer{options: options}
}

// Render converts a LaTeX expression to an HTML fragment. It never returns
// an error: expressions it cannot handle come back as the original
// delimited source inside an error span.
func (r *Renderer) Render(src string, displayMode bool) string {
	rendered, err := renderExpr(strings.TrimSpace(src))
	if err != nil {
		delimited := "$" + src + "$"
		if displayMode {
			delimited = "$$" + src + "$$"
		}
		return fmt.Sprintf(`<span class=%q>%s</span>`, r.options.ErrorClass, escape(delimited))
	}
	if displayMode {
		return fmt.Sprintf(`<div class=%q>%s</div>`, r.options.DisplayClass, rendered)
	}
	return fmt.Sprintf(`<span class=%q>%s</span>`, r.options.InlineClass, rendered)
}

var symbols = map[string]string{
	`alpha`: "α", `beta`: "β", `gamma`: "γ", `delta`: "δ",
	`epsilon`: "ε", `zeta`: "ζ", `eta`: "η", `theta`: "θ",
	`iota`: "ι", `kappa`: "κ", `lambda`: "λ", `mu`: "μ",
	`nu`: "ν", `xi`: "ξ", `pi`: "π", `rho`: "ρ",
	`sigma`: "σ", `tau`: "τ", `upsilon`: "υ", `phi`: "φ",
	`chi`: "χ", `psi`: "ψ", `omega`: "ω",
	`Gamma`: "Γ", `Delta`: "Δ", `Theta`: "Θ", `Lambda`: "Λ",
	`Xi`: "Ξ", `Pi`: "Π", `Sigma`: "Σ", `Phi`: "Φ",
	`Psi`: "Ψ", `Omega`: "Ω",
	`times`: "×", `cdot`: "·", `pm`: "±", `div`: "÷",
	`leq`: "≤", `geq`: "≥", `le`: "≤", `ge`: "≥",
	`neq`: "≠", `ne`: "≠", `approx`: "≈", `equiv`: "≡",
	`infty`: "∞", `partial`: "∂", `nabla`: "∇",
	`in`: "∈", `notin`: "∉", `subset`: "⊂", `supset`: "⊃",
	`cup`: "∪", `cap`: "∩", `emptyset`: "∅", `forall`: "∀", `exists`: "∃",
	`sum`: "Σ", `prod`: "Π", `int`: "∫",
	`to`: "→", `rightarrow`: "→", `leftarrow`: "←",
	`Rightarrow`: "⇒", `Leftarrow`: "⇐", `Leftrightarrow`: "⇔", `implies`: "⟹",
	`sin`: "sin", `cos`: "cos", `tan`: "tan", `log`: "log", `ln`: "ln",
	`lim`: "lim", `exp`: "exp", `min`: "min", `max`: "max",
	`ldots`: "…", `cdots`: "⋯", `dots`: "…",
	`left`: "", `right`: "", `,`: " ", `;`: " ", `!`: "", ` `: " ",
}

// renderExpr converts a LaTeX expression. An unknown command or an
// unbalanced group is an error and triggers the raw fallback upstream.
func renderExpr(src string) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(src) {
		switch c := src[i]; c {
		case '\\':
			name, rest, err := readCommand(src[i+1:])
			if err != nil {
				return "", err
			}
			i = len(src) - len(rest)
			switch name {
			case "frac":
				num, den, rest, err := readTwoGroups(src[i:])
				if err != nil {
					return "", err
				}
				i = len(src) - len(rest)
				numHTML, err := renderExpr(num)
				if err != nil {
					return "", err
				}
				denHTML, err := renderExpr(den)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(&sb, `<span class="frac"><sup>%s</sup>&frasl;<sub>%s</sub></span>`, numHTML, denHTML)
			case "sqrt":
				group, rest, err := readGroup(src[i:])
				if err != nil {
					return "", err
				}
				i = len(src) - len(rest)
				inner, err := renderExpr(group)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(&sb, `√<span class="sqrt">%s</span>`, inner)
			case "text", "mathrm", "operatorname":
				group, rest, err := readGroup(src[i:])
				if err != nil {
					return "", err
				}
				i = len(src) - len(rest)
				sb.WriteString(escape(group))
			default:
				symbol, ok := symbols[name]
				if !ok {
					return "", fmt.Errorf("unsupported command \\%s", name)
				}
				sb.WriteString(symbol)
			}
		case '^', '_':
			arg, rest, err := readArgument(src[i+1:])
			if err != nil {
				return "", err
			}
			i = len(src) - len(rest)
			inner, err := renderExpr(arg)
			if err != nil {
				return "", err
			}
			tag := "sup"
			if c == '_' {
				tag = "sub"
			}
			fmt.Fprintf(&sb, "<%s>%s</%s>", tag, inner, tag)
		case '{':
			group, rest, err := readGroup(src[i:])
			if err != nil {
				return "", err
			}
			i = len(src) - len(rest)
			inner, err := renderExpr(group)
			if err != nil {
				return "", err
			}
			sb.WriteString(inner)
		case '}':
			return "", fmt.Errorf("unbalanced group")
		default:
			sb.WriteString(escape(string(c)))
			i++
		}
	}
	return sb.String(), nil
}

// readCommand reads a command name after a backslash.
func readCommand(src string) (string, string, error) {
	if src == "" {
		return "", "", fmt.Errorf("trailing backslash")
	}
	if !isLetter(src[0]) {
		// Single-character commands like \, or \{
		return string(src[0]), src[1:], nil
	}
	i := 0
	for i < len(src) && isLetter(src[i]) {
		i++
	}
	return src[:i], src[i:], nil
}

// readArgument reads the argument of ^ or _: either a braced group or a
// single character.
func readArgument(src string) (string, string, error) {
	if src == "" {
		return "", "", fmt.Errorf("missing script argument")
	}
	if src[0] == '{' {
		return readGroup(src)
	}
	if src[0] == '\\' {
		name, rest, err := readCommand(src[1:])
		if err != nil {
			return "", "", err
		}
		return "\\" + name, rest, nil
	}
	return string(src[0]), src[1:], nil
}

// readGroup reads a balanced {...} group, returning its content.
func readGroup(src string) (string, string, error) {
	if src == "" || src[0] != '{' {
		return "", "", fmt.Errorf("expected group")
	}
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[1:i], src[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("unbalanced group")
}

func readTwoGroups(src string) (string, string, string, error) {
	first, rest, err := readGroup(src)
	if err != nil {
		return "", "", "", err
	}
	second, rest, err := readGroup(rest)
	if err != nil {
		return "", "", "", err
	}
	return first, second, rest, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
