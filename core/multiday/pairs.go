package multiday

import (
	"strings"

	"github.com/transitops/rosterd/core/model"
)

// Pair is a complete outbound/return round trip sharing a base display name.
type Pair struct {
	BaseName       string
	Outbound       model.BusinessDefinition
	Return         model.BusinessDefinition
	RequiredPeople int
	Rotation       *model.RotationRule
}

// DetectPairs groups two-day businesses by base display name (direction
// suffix stripped) and returns the complete pairs, in the order their
// outbound half appears in the input. Incomplete halves are left for the
// single-day scheduler.
func (r *Resolver) DetectPairs(businesses []model.BusinessDefinition) []Pair {
	type half struct {
		outbound *model.BusinessDefinition
		ret      *model.BusinessDefinition
	}
	halves := make(map[string]*half)
	var order []string

	for i := range businesses {
		b := businesses[i]
		if b.MultiDay == nil || b.MultiDay.DurationDays != 2 {
			continue
		}
		base, dir := r.splitDirection(b)
		if dir == model.DirectionNone {
			continue
		}
		h, ok := halves[base]
		if !ok {
			h = &half{}
			halves[base] = h
			order = append(order, base)
		}
		switch dir {
		case model.DirectionOutbound:
			if h.outbound == nil {
				h.outbound = &businesses[i]
			}
		case model.DirectionReturn:
			if h.ret == nil {
				h.ret = &businesses[i]
			}
		}
	}

	var pairs []Pair
	for _, base := range order {
		h := halves[base]
		if h.outbound == nil || h.ret == nil {
			r.log.Debugf("multiday: incomplete pair %q, skipping", base)
			continue
		}
		p := Pair{
			BaseName:       base,
			Outbound:       *h.outbound,
			Return:         *h.ret,
			RequiredPeople: h.outbound.RequiredPeople,
			Rotation:       pairRotation(*h.outbound, *h.ret),
		}
		if p.RequiredPeople <= 0 {
			p.RequiredPeople = r.cfg.DefaultRequiredPeople
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// splitDirection strips the direction suffix from the display name. A name
// without a direction suffix cannot form a pair half.
func (r *Resolver) splitDirection(b model.BusinessDefinition) (string, model.Direction) {
	if base, ok := strings.CutSuffix(b.Name, r.cfg.OutboundSuffix); ok {
		return base, model.DirectionOutbound
	}
	if base, ok := strings.CutSuffix(b.Name, r.cfg.ReturnSuffix); ok {
		return base, model.DirectionReturn
	}
	return b.Name, model.DirectionNone
}

// pairRotation picks the canonical rotation rule for the pair: the outbound
// half wins, the return half is the fallback.
func pairRotation(outbound, ret model.BusinessDefinition) *model.RotationRule {
	if outbound.MultiDay != nil && outbound.MultiDay.Rotation != nil {
		return outbound.MultiDay.Rotation
	}
	if ret.MultiDay != nil && ret.MultiDay.Rotation != nil {
		return ret.MultiDay.Rotation
	}
	return nil
}
