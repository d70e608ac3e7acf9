package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"helpdesk/internal/repositories"
)

// TicketNumberGenerator issues the human-facing ticket identifier: one atomic
// counter advance rendered through the deployment's configured mask. It runs
// on the creation transaction, so a failed creation rolls the advance back.
type TicketNumberGenerator struct {
	Sequences repositories.SequenceRepository
	Now       func() time.Time
}

func (g TicketNumberGenerator) Next(ctx context.Context, tx *sql.Tx) (string, error) {
	cfg, err := g.Sequences.NumberingConfig(ctx, tx)
	if err != nil {
		return "", err
	}
	name, err := g.Sequences.SequenceName(ctx, tx, cfg.SequenceID)
	if err != nil {
		return "", err
	}
	seq, err := g.Sequences.NextValue(ctx, tx, name)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	return renderTicketNumber(cfg.Format, seq, now), nil
}

var hashRun = regexp.MustCompile(`#+`)

// renderTicketNumber substitutes the mask in a fixed order: date tokens
// first, then the first run of '#' as a zero-padded counter sized to the run,
// then the bare %SEQ marker as the unpadded counter. A mask with neither
// counter form never embeds the counter; the resulting identifiers can
// collide, which is a configuration hazard the generator does not guard.
func renderTicketNumber(mask string, seq int64, now time.Time) string {
	out := strings.NewReplacer(
		"%y", now.Format("06"),
		"%Y", now.Format("2006"),
		"%m", now.Format("01"),
		"%d", now.Format("02"),
	).Replace(mask)

	if loc := hashRun.FindStringIndex(out); loc != nil {
		width := loc[1] - loc[0]
		out = out[:loc[0]] + fmt.Sprintf("%0*d", width, seq) + out[loc[1]:]
	}

	return strings.ReplaceAll(out, "%SEQ", strconv.FormatInt(seq, 10))
}
