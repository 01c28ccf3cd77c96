// Package features computes named behavioural features from gaze data.
//
// Features come from two registries: scalar features computed over the
// whole input, and AOI features computed once per AOI and exported under
// "<aoi>_<feature>" labels. Features that expand per source AOI are
// labelled "<aoi>_<feature>_<source>".
package features

import (
	"github.com/m-wu/EMDAT/internal/monitoring"
)

// Request selects the features to compute.
//
// A nil list means every default feature of the registry; an empty,
// non-nil list means none. When AOILabels is non-nil it replaces
// AOIFeatures and names exact "<aoi>_<feature>" columns instead.
type Request struct {
	Features    []string
	AOIFeatures []string
	AOILabels   []string
}

// Calculator computes feature vectors from a pair of registries.
type Calculator struct {
	Scalars *Registry
	AOIs    *Registry
}

// NewCalculator returns a Calculator over the built-in registries.
func NewCalculator() *Calculator {
	return &Calculator{Scalars: Default(), AOIs: DefaultAOI()}
}

// Compute returns feature names and values in request order using the
// built-in registries.
func Compute(req Request, in Input) ([]string, []Value) {
	return NewCalculator().Compute(req, in)
}

// Compute returns feature names and values in request order. Unknown
// feature names are logged and omitted.
func (k *Calculator) Compute(req Request, in Input) ([]string, []Value) {
	c := newContext(&in)

	var names []string
	var values []Value

	scalars := req.Features
	if scalars == nil {
		scalars = k.Scalars.Defaults()
	}
	for _, name := range scalars {
		def, ok := k.Scalars.Get(name)
		if !ok || def.Compute == nil {
			monitoring.Logf("unknown feature %q requested; omitted", name)
			continue
		}
		names = append(names, name)
		values = append(values, def.Compute(c))
	}

	if len(in.AOIs) == 0 {
		for _, label := range req.AOILabels {
			monitoring.Logf("AOI feature label %q requested but no AOIs are defined; omitted", label)
		}
		if req.AOILabels == nil && len(req.AOIFeatures) > 0 {
			monitoring.Logf("AOI features %v requested but no AOIs are defined; omitted", req.AOIFeatures)
		}
		return names, values
	}

	if req.AOILabels != nil {
		aoiNames, aoiValues := k.aoiColumns(c, k.AOIs.Defaults())
		index := make(map[string]int, len(aoiNames))
		for i, n := range aoiNames {
			index[n] = i
		}
		// Non-default AOI features are still reachable by label.
		var extra []string
		for _, info := range k.AOIs.List() {
			if !info.Default {
				extra = append(extra, info.Name)
			}
		}
		if len(extra) > 0 {
			en, ev := k.aoiColumns(c, extra)
			for i, n := range en {
				index[n] = len(aoiNames)
				aoiNames = append(aoiNames, n)
				aoiValues = append(aoiValues, ev[i])
			}
		}
		for _, label := range req.AOILabels {
			i, ok := index[label]
			if !ok {
				monitoring.Logf("unknown AOI feature label %q requested; omitted", label)
				continue
			}
			names = append(names, label)
			values = append(values, aoiValues[i])
		}
		return names, values
	}

	aoiFeatures := req.AOIFeatures
	if aoiFeatures == nil {
		aoiFeatures = k.AOIs.Defaults()
	}
	var known []string
	for _, name := range aoiFeatures {
		if _, ok := k.AOIs.Get(name); !ok {
			monitoring.Logf("unknown AOI feature %q requested; omitted", name)
			continue
		}
		known = append(known, name)
	}
	an, av := k.aoiColumns(c, known)
	return append(names, an...), append(values, av...)
}

// aoiColumns computes the listed AOI features for every AOI, AOI-major.
func (k *Calculator) aoiColumns(c *Context, feats []string) ([]string, []Value) {
	var names []string
	var values []Value
	for ai, a := range c.in.AOIs {
		ac := &AOIContext{Context: c, Index: ai}
		for _, name := range feats {
			def, ok := k.AOIs.Get(name)
			if !ok {
				continue
			}
			switch {
			case def.AOI != nil:
				names = append(names, a.Name+"_"+name)
				values = append(values, def.AOI(ac))
			case def.FromAOI != nil:
				for si, src := range c.in.AOIs {
					names = append(names, a.Name+"_"+name+"_"+src.Name)
					values = append(values, def.FromAOI(ac, si))
				}
			}
		}
	}
	return names, values
}
