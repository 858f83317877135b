package services

import (
	"Drivebox/internal/errs"
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"strconv"
)

// ParseItemQuery maps listing query parameters onto a typed query. When several
// filters are present the first in the order mediaType, starred, shared,
// private, trashed wins.
func ParseItemQuery(viewer uint, params map[string]string) (repository.ItemQuery, error) {
	query := repository.ItemQuery{Viewer: viewer}

	if raw, ok := params["mediaType"]; ok && raw != "" {
		mediaType, valid := models.ParseMediaType(raw)
		if !valid {
			return query, errs.Validation("unknown media type %q", raw)
		}
		query.Filter = repository.FilterMediaType
		query.MediaType = mediaType
		return query, nil
	}

	flags := []struct {
		param  string
		filter repository.ItemFilter
	}{
		{"starred", repository.FilterStarred},
		{"shared", repository.FilterSharedWithMe},
		{"private", repository.FilterPrivate},
		{"trashed", repository.FilterTrashed},
	}
	for _, flag := range flags {
		set, err := parseFlag(params, flag.param)
		if err != nil {
			return query, err
		}
		if set {
			query.Filter = flag.filter
			return query, nil
		}
	}
	return query, nil
}

// parseFlag treats a bare parameter (?starred) as true.
func parseFlag(params map[string]string, name string) (bool, error) {
	raw, ok := params[name]
	if !ok {
		return false, nil
	}
	if raw == "" {
		return true, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.Validation("%s must be a boolean", name)
	}
	return value, nil
}
