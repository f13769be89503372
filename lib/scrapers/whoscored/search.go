package whoscored

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"

	"footylens-backend/lib/htmlutil"
	"footylens-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

var teamIDPattern = regexp.MustCompile(`/teams/(\d+)/`)
var playerIDPattern = regexp.MustCompile(`(?i)/players/(\d+)/`)
var playerPathPattern = regexp.MustCompile(`(?i)/players/\d+/`)

type TeamRef struct {
	ID         int
	Name       string
	Country    string
	ProfileURL string
}

type PlayerRef struct {
	ID         int
	Name       string
	ProfileURL string
}

func (c *Client) searchPage(ctx context.Context, query string) (*goquery.Document, string, error) {
	link := "/search/?t=" + url.QueryEscape(query)
	body, err := c.fetch(ctx, link)
	if err != nil {
		return nil, link, &UpstreamError{Subject: query, URL: link, Err: err}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, link, &UpstreamError{Subject: query, URL: link, Err: err}
	}
	return doc, link, nil
}

// ResolveTeam turns a free-text team name plus a country into the
// team's profile link and numeric id. A result row qualifies when it
// has exactly two cells and the second one names the wanted country;
// among several qualifying rows the name closest to the query wins,
// first occurrence breaking ties.
func (c *Client) ResolveTeam(ctx context.Context, name, country string) (TeamRef, error) {
	doc, link, err := c.searchPage(ctx, name)
	if err != nil {
		return TeamRef{}, err
	}

	type candidate struct {
		name string
		href string
	}
	var candidates []candidate

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}
		rowCountry := htmlutil.CleanText(cells.Eq(1))
		if !textutil.EqualFold(rowCountry, country) {
			return
		}
		anchors := htmlutil.GetAnchors(cells.Eq(0).Find("a"))
		if len(anchors) == 0 || anchors[0].Href == "" {
			return
		}
		candidates = append(candidates, candidate{
			name: anchors[0].Name,
			href: anchors[0].Href,
		})
	})

	if len(candidates) == 0 {
		slog.DebugContext(ctx, "team search yielded no qualifying row",
			"team", name, "country", country, "url", link)
		return TeamRef{}, ErrNotFound
	}

	best := candidates[0]
	if len(candidates) > 1 {
		wanted := textutil.NormalizeName(name)
		bestScore := matchr.JaroWinkler(wanted, textutil.NormalizeName(best.name), true)
		for _, cand := range candidates[1:] {
			score := matchr.JaroWinkler(wanted, textutil.NormalizeName(cand.name), true)
			if score > bestScore {
				best = cand
				bestScore = score
			}
		}
	}

	id, err := extractID(best.href, teamIDPattern)
	if err != nil {
		return TeamRef{}, err
	}
	return TeamRef{
		ID:         id,
		Name:       name,
		Country:    country,
		ProfileURL: best.href,
	}, nil
}

// ResolvePlayer takes the first search result anchor whose link points
// at a player profile.
func (c *Client) ResolvePlayer(ctx context.Context, name string) (PlayerRef, error) {
	doc, link, err := c.searchPage(ctx, name)
	if err != nil {
		return PlayerRef{}, err
	}

	var found *htmlutil.Anchor
	for _, anchor := range htmlutil.GetAnchors(doc.Find("a")) {
		if playerPathPattern.MatchString(anchor.Href) {
			a := anchor
			found = &a
			break
		}
	}
	if found == nil {
		slog.DebugContext(ctx, "player search yielded no profile link",
			"player", name, "url", link)
		return PlayerRef{}, ErrNotFound
	}

	id, err := extractID(found.Href, playerIDPattern)
	if err != nil {
		return PlayerRef{}, err
	}
	return PlayerRef{
		ID:         id,
		Name:       name,
		ProfileURL: found.Href,
	}, nil
}

func extractID(link string, pattern *regexp.Regexp) (int, error) {
	groups := pattern.FindStringSubmatch(link)
	if len(groups) < 2 {
		return 0, &MalformedURLError{URL: link, Pattern: pattern.String()}
	}
	id, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, fmt.Errorf("parse id from %q: %w", link, err)
	}
	return id, nil
}
