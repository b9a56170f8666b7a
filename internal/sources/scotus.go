// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// scotusBase is the supremecourt.gov root. Declared as a var so tests
// can substitute an httptest server.
var scotusBase = "https://www.supremecourt.gov"

// SCOTUSClient reads Supreme Court data: the built-in landmark table
// (pure in-memory) and the slip-opinion and oral-argument pages scraped
// from supremecourt.gov, which has no formal API.
type SCOTUSClient struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the source identifier.
func (c *SCOTUSClient) Name() string { return "scotus" }

// SearchByTopic returns landmark cases whose topic keyword appears in
// text. The lookup is pure and safe for unsynchronized concurrent use:
// the landmark table is read-only for the process lifetime.
func (c *SCOTUSClient) SearchByTopic(text string, maxResults int) []types.LandmarkEntry {
	return LandmarkLookup(text, maxResults)
}

// LandmarkLookup scans the landmark table for topic keywords contained
// in text (case-insensitive) and returns up to maxResults entries.
func LandmarkLookup(text string, maxResults int) []types.LandmarkEntry {
	lowered := strings.ToLower(text)
	var entries []types.LandmarkEntry
	for _, keyword := range landmarkTopics {
		if strings.Contains(lowered, keyword) {
			entries = append(entries, landmarkCases[keyword]...)
		}
	}
	if maxResults > 0 && len(entries) > maxResults {
		entries = entries[:maxResults]
	}
	return entries
}

// SlipOpinion is one slip-opinion PDF link scraped from the term page.
type SlipOpinion struct {
	Term   string `json:"term" yaml:"term"`
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`
}

// OralArgument is one argument-audio link scraped from the term page.
type OralArgument struct {
	Term     string `json:"term" yaml:"term"`
	AudioURL string `json:"audio_url" yaml:"audio_url"`
}

var (
	slipOpinionPattern  = regexp.MustCompile(`href="(/opinions/\d+pdf/[^"]+)"`)
	argumentAudioPattern = regexp.MustCompile(`href="(/oral_arguments/audio/\d+/[^"]+)"`)
)

const maxScrapedLinks = 10

// SlipOpinions fetches the slip-opinion page for a term and extracts
// opinion PDF links. An empty term defaults to the current term.
func (c *SCOTUSClient) SlipOpinions(ctx context.Context, term string) ([]SlipOpinion, error) {
	if term == "" {
		term = CurrentTerm(time.Now())
	}
	html, err := c.fetchPage(ctx, fmt.Sprintf("%s/opinions/slipopinion/%s", scotusBase, term))
	if err != nil {
		return nil, err
	}

	var opinions []SlipOpinion
	for _, m := range slipOpinionPattern.FindAllStringSubmatch(html, maxScrapedLinks) {
		opinions = append(opinions, SlipOpinion{Term: term, PDFURL: scotusBase + m[1]})
	}
	return opinions, nil
}

// OralArguments fetches the argument-audio page for a term and extracts
// audio links. An empty term defaults to the current term.
func (c *SCOTUSClient) OralArguments(ctx context.Context, term string) ([]OralArgument, error) {
	if term == "" {
		term = CurrentTerm(time.Now())
	}
	html, err := c.fetchPage(ctx, fmt.Sprintf("%s/oral_arguments/argument_audio/%s", scotusBase, term))
	if err != nil {
		return nil, err
	}

	var arguments []OralArgument
	for _, m := range argumentAudioPattern.FindAllStringSubmatch(html, maxScrapedLinks) {
		arguments = append(arguments, OralArgument{Term: term, AudioURL: scotusBase + m[1]})
	}
	return arguments, nil
}

func (c *SCOTUSClient) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("supremecourt.gov request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("supremecourt.gov returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading supremecourt.gov page: %w", err)
	}
	return string(body), nil
}

// CurrentTerm returns the October Term year for a point in time. Terms
// begin the first Monday of October, so before October the previous
// year's term is still current.
func CurrentTerm(now time.Time) string {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d", year)
}

// landmarkTopics fixes the scan order of the landmark table so lookups
// are deterministic (map iteration order is not).
var landmarkTopics = []string{
	"fourth amendment",
	"first amendment",
	"equal protection",
	"due process",
	"qualified immunity",
	"second amendment",
	"executive power",
	"section 1983",
	"privacy",
	"digital",
}

// landmarkCases maps constitutional-law topic keywords to well-known
// Supreme Court cases. Seed data used to backfill results the search
// sources miss; constructed once and never mutated.
var landmarkCases = map[string][]types.LandmarkEntry{
	"fourth amendment": {
		{CaseName: "Carpenter v. United States", Citation: "585 U.S. 296 (2018)", Topic: "Cell phone location data is protected by 4th Amendment"},
		{CaseName: "Riley v. California", Citation: "573 U.S. 373 (2014)", Topic: "Police must get warrant to search cell phones"},
		{CaseName: "Katz v. United States", Citation: "389 U.S. 347 (1967)", Topic: "Established reasonable expectation of privacy test"},
		{CaseName: "Terry v. Ohio", Citation: "392 U.S. 1 (1968)", Topic: "Stop and frisk standards"},
		{CaseName: "Mapp v. Ohio", Citation: "367 U.S. 643 (1961)", Topic: "Exclusionary rule applies to states"},
	},
	"first amendment": {
		{CaseName: "Tinker v. Des Moines", Citation: "393 U.S. 503 (1969)", Topic: "Student free speech in schools"},
		{CaseName: "New York Times Co. v. Sullivan", Citation: "376 U.S. 254 (1964)", Topic: "Actual malice standard for public figures"},
		{CaseName: "Brandenburg v. Ohio", Citation: "395 U.S. 444 (1969)", Topic: "Imminent lawless action test"},
		{CaseName: "Citizens United v. FEC", Citation: "558 U.S. 310 (2010)", Topic: "Corporate political speech"},
		{CaseName: "Snyder v. Phelps", Citation: "562 U.S. 443 (2011)", Topic: "Westboro Baptist Church protests protected"},
	},
	"equal protection": {
		{CaseName: "Brown v. Board of Education", Citation: "347 U.S. 483 (1954)", Topic: "School segregation unconstitutional"},
		{CaseName: "Students for Fair Admissions v. Harvard", Citation: "600 U.S. 181 (2023)", Topic: "Race-conscious admissions unconstitutional"},
		{CaseName: "Obergefell v. Hodges", Citation: "576 U.S. 644 (2015)", Topic: "Same-sex marriage is a fundamental right"},
		{CaseName: "Loving v. Virginia", Citation: "388 U.S. 1 (1967)", Topic: "Interracial marriage bans unconstitutional"},
	},
	"due process": {
		{CaseName: "Mathews v. Eldridge", Citation: "424 U.S. 319 (1976)", Topic: "Three-factor balancing test for procedural due process"},
		{CaseName: "Gideon v. Wainwright", Citation: "372 U.S. 335 (1963)", Topic: "Right to counsel in criminal cases"},
		{CaseName: "Miranda v. Arizona", Citation: "384 U.S. 436 (1966)", Topic: "Miranda rights required before interrogation"},
		{CaseName: "Roe v. Wade", Citation: "410 U.S. 113 (1973)", Topic: "Substantive due process and privacy (overruled by Dobbs)"},
		{CaseName: "Dobbs v. Jackson", Citation: "597 U.S. 215 (2022)", Topic: "No constitutional right to abortion, overruling Roe"},
	},
	"qualified immunity": {
		{CaseName: "Harlow v. Fitzgerald", Citation: "457 U.S. 800 (1982)", Topic: "Established qualified immunity doctrine"},
		{CaseName: "Pearson v. Callahan", Citation: "555 U.S. 223 (2009)", Topic: "Courts can skip clearly established analysis"},
		{CaseName: "Kisela v. Hughes", Citation: "584 U.S. 100 (2018)", Topic: "High bar for defeating qualified immunity"},
	},
	"second amendment": {
		{CaseName: "District of Columbia v. Heller", Citation: "554 U.S. 570 (2008)", Topic: "Individual right to bear arms"},
		{CaseName: "McDonald v. City of Chicago", Citation: "561 U.S. 742 (2010)", Topic: "2nd Amendment applies to states"},
		{CaseName: "New York State Rifle & Pistol Assn. v. Bruen", Citation: "597 U.S. 1 (2022)", Topic: "Text, history, and tradition test for gun laws"},
	},
	"executive power": {
		{CaseName: "Youngstown Sheet & Tube Co. v. Sawyer", Citation: "343 U.S. 579 (1952)", Topic: "Limits on presidential power framework"},
		{CaseName: "Trump v. Hawaii", Citation: "585 U.S. 667 (2018)", Topic: "Presidential authority over immigration"},
		{CaseName: "Nixon v. United States", Citation: "418 U.S. 683 (1974)", Topic: "Executive privilege is not absolute"},
	},
	"section 1983": {
		{CaseName: "Monroe v. Pape", Citation: "365 U.S. 167 (1961)", Topic: "Section 1983 applies to state officials acting under color of law"},
		{CaseName: "Monell v. Department of Social Services", Citation: "436 U.S. 658 (1978)", Topic: "Municipal liability under Section 1983"},
		{CaseName: "Graham v. Connor", Citation: "490 U.S. 386 (1989)", Topic: "Objective reasonableness standard for excessive force"},
	},
	"privacy": {
		{CaseName: "Griswold v. Connecticut", Citation: "381 U.S. 479 (1965)", Topic: "Right to privacy in marital relations"},
		{CaseName: "Carpenter v. United States", Citation: "585 U.S. 296 (2018)", Topic: "Digital privacy and cell phone tracking"},
		{CaseName: "Riley v. California", Citation: "573 U.S. 373 (2014)", Topic: "Cell phone search requires warrant"},
	},
	"digital": {
		{CaseName: "Carpenter v. United States", Citation: "585 U.S. 296 (2018)", Topic: "Cell-site location information protected"},
		{CaseName: "Riley v. California", Citation: "573 U.S. 373 (2014)", Topic: "Warrantless cell phone search unconstitutional"},
		{CaseName: "United States v. Jones", Citation: "565 U.S. 400 (2012)", Topic: "GPS tracking constitutes a search"},
	},
}
