package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// parseBBox parses 'minLon,minLat,maxLon,maxLat'.
func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox '%s' must be minLon,minLat,maxLon,maxLat", s)
	}

	var vals [4]float64
	for idx, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox '%s': %w", s, err)
		}
		vals[idx] = val
	}

	bound := orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}

	switch {
	case bound.Min[0] >= bound.Max[0] || bound.Min[1] >= bound.Max[1]:
		return orb.Bound{}, fmt.Errorf("bbox '%s': min must be below max", s)
	case bound.Min[0] < -180 || bound.Max[0] > 180 || bound.Min[1] < -90 || bound.Max[1] > 90:
		return orb.Bound{}, fmt.Errorf("bbox '%s': not lon/lat", s)
	}

	return bound, nil
}

// splitInputs splits a comma separated list of filenames.
func splitInputs(s string) ([]string, error) {
	var inputs []string
	for _, input := range strings.Split(s, ",") {
		if input = strings.TrimSpace(input); input != "" {
			inputs = append(inputs, input)
		}
	}
	if len(inputs) == 0 {
		return nil, errors.New("-input is required for file sources")
	}
	return inputs, nil
}
