// Package catalog serves the read-only problem/contest catalog. The rows
// are populated out of band; this package only resolves and lists them.
package catalog

import (
	"cpnotes/pkg/errs"
	"cpnotes/pkg/keys"
	"cpnotes/pkg/models"
	"cpnotes/pkg/store"
)

// GetProblemInfo resolves a client-facing problem id ("1500#A") to its
// catalog entry, joining the contest row for display names.
func GetProblemInfo(platform, problemID string) (models.ProblemInfo, error) {
	dbProblemID, err := keys.InflateProblemID(problemID)
	if err != nil {
		return models.ProblemInfo{}, errs.Wrap(errs.ErrProblemNotFound, err)
	}
	return getProblemInfoDB(platform, dbProblemID)
}

func getProblemInfoDB(platform, dbProblemID string) (models.ProblemInfo, error) {
	rec, err := store.GetItem(store.ProblemsTable, platform, dbProblemID)
	if err != nil {
		return models.ProblemInfo{}, err
	}
	if rec == nil {
		return models.ProblemInfo{}, errs.ErrProblemNotFound
	}

	contestKey := dbProblemID
	problemCode := ""
	if j := lastSep(dbProblemID); j >= 0 {
		contestKey = dbProblemID[:j]
		problemCode = dbProblemID[j+1:]
	}
	info := models.ProblemInfo{
		Code:        problemCode,
		Name:        rec.String("name"),
		ContestCode: keys.DecodeContestID(contestKey),
		Link:        rec.String("link"),
		Level:       rec.String("level"),
	}
	if contest, err := GetContestInfo(platform, contestKey); err == nil {
		info.ContestName = contest.Name
	}
	return info, nil
}

// ProblemExists reports whether the stored problem id is in the catalog.
func ProblemExists(platform, dbProblemID string) (bool, error) {
	rec, err := store.GetItem(store.ProblemsTable, platform, dbProblemID)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// GetContestInfo resolves an encoded contest key to its catalog entry.
func GetContestInfo(platform, contestKey string) (models.ContestInfo, error) {
	rec, err := store.GetItem(store.ContestsTable, platform, contestKey)
	if err != nil {
		return models.ContestInfo{}, err
	}
	if rec == nil {
		return models.ContestInfo{}, errs.ErrContestNotFound
	}
	return models.ContestInfo{
		Code: keys.DecodeContestID(contestKey),
		Name: rec.String("name"),
	}, nil
}

// GetContests lists a platform's contests with sort keys deflated to
// their display form.
func GetContests(platform string) ([]models.ContestInfo, error) {
	rows, err := store.QueryByPartition(store.ContestsTable, platform, store.QueryOptions{Descending: true})
	if err != nil {
		return nil, err
	}
	out := make([]models.ContestInfo, 0, len(rows))
	for _, rec := range rows {
		out = append(out, models.ContestInfo{
			Code: keys.DecodeContestID(rec.String("sk")),
			Name: rec.String("name"),
		})
	}
	return out, nil
}

// GetProblems lists a platform's problems with ids in display form.
func GetProblems(platform string) ([]map[string]string, error) {
	rows, err := store.QueryByPartition(store.ProblemsTable, platform, store.QueryOptions{})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]string, 0, len(rows))
	for _, rec := range rows {
		out = append(out, map[string]string{
			"problemId": keys.DeflateProblemID(rec.String("sk")),
			"name":      rec.String("name"),
			"link":      rec.String("link"),
			"level":     rec.String("level"),
		})
	}
	return out, nil
}

// PutProblem seeds a catalog problem row. Exposed for the catalog loader
// and tests; the serving path never writes these tables.
func PutProblem(platform, dbProblemID, name, link, level string) error {
	return store.Put(store.ProblemsTable, store.Record{
		"platform": platform,
		"sk":       dbProblemID,
		"name":     name,
		"link":     link,
		"level":    level,
	})
}

// PutContest seeds a catalog contest row.
func PutContest(platform, contestKey, name string) error {
	return store.Put(store.ContestsTable, store.Record{
		"platform": platform,
		"sk":       contestKey,
		"name":     name,
	})
}

func lastSep(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '#' {
			return i
		}
	}
	return -1
}
