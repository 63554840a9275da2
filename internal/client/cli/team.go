package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrijs2005/teamdeck/internal/client/roster"
)

// Team shows the current member. With a role it first jumps to the first
// member holding that role.
func (a *App) Team(ctx context.Context, role string) error {
	if role = strings.TrimSpace(role); role != "" {
		if !a.carousel.SelectRole(role) {
			fmt.Fprintf(a.out, "No member with role %q. Roles: %s\n", role, strings.Join(a.roles(), ", "))
			return nil
		}
	}
	a.printCurrent()
	return nil
}

// Next advances the carousel by one member.
func (a *App) Next(ctx context.Context) error {
	a.carousel.Advance()
	a.printCurrent()
	return nil
}

// Members lists the roster, marking the member on screen.
func (a *App) Members(ctx context.Context) error {
	renderMembers(a.out, a.carousel.Members(), a.carousel.Index())
	return nil
}

func (a *App) roles() []string {
	return (&roster.Roster{Members: a.carousel.Members()}).Roles()
}

func (a *App) printCurrent() {
	i, m := a.carousel.Index(), a.carousel.Current()
	renderMember(a.out, m, i, a.carousel.Len(), portraitStatus(a.images, m.Image))
}

// portraitStatus describes the load state of a member's image.
func portraitStatus(pool *roster.ImagePool, src string) string {
	if src == "" {
		return "none"
	}
	l, ok := pool.Lookup(src)
	if !ok {
		return "not requested"
	}
	switch l.State() {
	case roster.StateLoaded:
		if info, ok := l.Info(); ok {
			return fmt.Sprintf("%s %dx%d", info.Format, info.Width, info.Height)
		}
		return "loaded"
	case roster.StateError:
		return "unavailable"
	default:
		return "loading"
	}
}

func renderMember(w io.Writer, m roster.Member, index, total int, portrait string) {
	fmt.Fprintf(w, "[%d/%d] %s, %s\n", index+1, total, m.Name, m.Role)
	if m.Description != "" {
		fmt.Fprintf(w, "  %s\n", m.Description)
	}
	fmt.Fprintf(w, "  portrait: %s\n", portrait)
	for _, k := range slices.Sorted(maps.Keys(m.Socials)) {
		fmt.Fprintf(w, "  %s: %s\n", k, m.Socials[k])
	}
}

func renderMembers(w io.Writer, members []roster.Member, current int) {
	for i, m := range members {
		marker := " "
		if i == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d. %s (%s)\n", marker, i+1, m.Name, m.Role)
	}
}
