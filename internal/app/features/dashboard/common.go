// internal/app/features/dashboard/common.go
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/suvana/suvana/internal/app/system/format"
	"github.com/suvana/suvana/internal/app/system/formutil"
	"github.com/suvana/suvana/internal/app/system/viewdata"
	"github.com/suvana/suvana/internal/domain/models"
)

// previewPools is how many pools the grid shows before "View All".
const previewPools = 3

// poolCardVM is one card in the "Available Pools" grid.
type poolCardVM struct {
	ID                 string
	Name               string
	Status             string
	Members            string
	Share              string
	Progress           int
	ProgressLabel      string
	TotalPayout        string
	NextPayout         string
	NextPayoutRelative string
	Cycle              string

	IsUserPool bool
	CanJoin    bool // not the user's pool and a seat is open
	Full       bool // not the user's pool and no seat is open

	CSRFToken string
}

// userPoolVM is the "My Active Pool" panel.
type userPoolVM struct {
	ID            string
	Name          string
	Status        string
	Share         string
	Members       string
	TotalPayout   string
	CycleLabel    string
	CycleProgress int

	ContributionDue  bool
	ContributeLabel  string
	NextContribution string

	PayoutTurn int
	PayoutDate string

	Collected    string
	CurrentCycle int
	CycleDays    int
	CyclesLeft   int

	CSRFToken string
}

type statsVM struct {
	TotalMembers string
	ActivePools  string
	Collected    string
}

// summaryVM is the live preview under the create form.
type summaryVM struct {
	Members        int
	PerCycle       string
	CycleDays      int
	CompletionDays int
	Error          string
}

type dashboardData struct {
	viewdata.BaseVM

	UserPool   *userPoolVM
	Pools      []poolCardVM
	ShowAll    bool
	HasMore    bool
	TotalPools int
	Stats      statsVM

	Form    formutil.PoolForm
	Summary summaryVM
}

type gateData struct {
	viewdata.BaseVM
}

func newPoolCard(p models.Pool, userPoolID string, now time.Time) poolCardVM {
	progress := p.ProgressPercent()
	isUser := userPoolID != "" && p.ID == userPoolID
	return poolCardVM{
		ID:                 p.ID,
		Name:               p.Name,
		Status:             string(p.Status),
		Members:            fmt.Sprintf("%d/%d", p.Participants, p.Size),
		Share:              format.SUI(p.ShareAmount),
		Progress:           int(math.Round(progress)),
		ProgressLabel:      format.Percent(progress),
		TotalPayout:        format.SUI(p.TotalPayout()),
		NextPayout:         format.Date(p.NextPayout),
		NextPayoutRelative: format.Relative(p.NextPayout, now),
		Cycle:              fmt.Sprintf("%d/%d", p.CurrentCycle, p.TotalCycles),
		IsUserPool:         isUser,
		CanJoin:            !isUser && !p.IsFull(),
		Full:               !isUser && p.IsFull(),
	}
}

func newUserPool(p models.Pool, address string, now time.Time) *userPoolVM {
	due := p.ContributionDue(now)
	label := "Contribute Now"
	if due {
		label = "Pay Overdue Contribution"
	}
	return &userPoolVM{
		ID:               p.ID,
		Name:             p.Name,
		Status:           string(p.Status),
		Share:            format.SUI(p.ShareAmount),
		Members:          fmt.Sprintf("%d/%d", p.Participants, p.Size),
		TotalPayout:      format.SUI(p.TotalPayout()),
		CycleLabel:       fmt.Sprintf("Cycle %d/%d", p.CurrentCycle, p.TotalCycles),
		CycleProgress:    int(math.Round(p.CycleProgressPercent())),
		ContributionDue:  due,
		ContributeLabel:  label,
		NextContribution: format.Date(p.NextContributionDate(now)),
		PayoutTurn:       p.PayoutCycle(address),
		PayoutDate:       format.Date(p.PayoutDate(now, address)),
		Collected:        format.Amount(p.Collected),
		CurrentCycle:     p.CurrentCycle,
		CycleDays:        p.CycleDuration,
		CyclesLeft:       p.CyclesLeft(),
	}
}

func newStats(pools []models.Pool) statsVM {
	st := models.ComputeStats(pools)
	return statsVM{
		TotalMembers: format.Count(st.TotalMembers),
		ActivePools:  format.Count(st.ActivePools),
		Collected:    format.Stat(st.Collected),
	}
}

func summaryFromForm(f formutil.PoolForm) summaryVM {
	pp, err := f.Params()
	if err != nil {
		return summaryVM{Error: formutil.ErrorMessage(err)}
	}
	s := pp.Summary()
	return summaryVM{
		Members:        s.Members,
		PerCycle:       format.Amount(s.PerCycle),
		CycleDays:      s.CycleDays,
		CompletionDays: s.CompletionDays,
	}
}
