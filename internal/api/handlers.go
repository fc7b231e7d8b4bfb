package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/banshee-data/trajectory.report/internal/httputil"
	"github.com/banshee-data/trajectory.report/internal/traj"
	"github.com/banshee-data/trajectory.report/internal/trajdb"
	"github.com/banshee-data/trajectory.report/internal/units"
	"github.com/banshee-data/trajectory.report/internal/version"
)

// handleVersion reports build identification.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

// trajectoryResponse is the full JSON form of a stored trajectory.
type trajectoryResponse struct {
	Meta             trajdb.Meta `json:"meta"`
	X                []float64   `json:"x"`
	Y                []float64   `json:"y"`
	Time             []float64   `json:"time"`
	DisplacementTime []float64   `json:"displacement_time"`
	PathLength       float64     `json:"path_length"`
}

// handleCollection serves /api/trajectories: GET lists, POST ingests a CSV
// body as a new trajectory.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		metas, err := s.store.List()
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to list trajectories: %v", err))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, metas)
	case http.MethodPost:
		s.createTrajectory(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// createTrajectory builds a trajectory from a CSV request body. Query
// parameters: label, fps, x_col, y_col, time_col. Column parameters take a
// header name or a zero-based index.
func (s *Server) createTrajectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := traj.DefaultTableOptions()
	opts.FPS = s.cfg.GetDefaultFPS()
	if v := q.Get("fps"); v != "" {
		fps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("invalid fps parameter %q", v))
			return
		}
		opts.FPS = fps
	}
	if v := q.Get("x_col"); v != "" {
		opts.XColumn = parseColumnRef(v)
	}
	if v := q.Get("y_col"); v != "" {
		opts.YColumn = parseColumnRef(v)
	}
	if v := q.Get("time_col"); v != "" {
		ref := parseColumnRef(v)
		opts.TimeColumn = &ref
	}

	table, err := traj.ReadCSV(r.Body)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("failed to parse csv body: %v", err))
		return
	}
	t, err := traj.FromTable(table, opts)
	if err != nil {
		writeTrajError(w, err)
		return
	}
	if u := s.cfg.GetDefaultUnits(); u != "" && t.Units == "" {
		t, err = traj.Scale(t, 1, u)
		if err != nil {
			writeTrajError(w, err)
			return
		}
	}

	id, err := s.store.Save(q.Get("label"), "csv", t)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to save trajectory: %v", err))
		return
	}
	meta, err := s.store.GetMeta(id)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load saved trajectory: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, meta)
}

// handleTrajectory serves /api/trajectories/{id} and the transformation
// endpoints /api/trajectories/{id}/{rediscretize|smooth|scale}.
func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/trajectories/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		httputil.NotFound(w, "missing trajectory id")
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.getTrajectory(w, id)
		case http.MethodDelete:
			s.deleteTrajectory(w, id)
		default:
			httputil.MethodNotAllowed(w)
		}
	case "rediscretize", "smooth", "scale":
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}
		s.transformTrajectory(w, r, id, action)
	default:
		httputil.NotFound(w, fmt.Sprintf("unknown action %q", action))
	}
}

func (s *Server) getTrajectory(w http.ResponseWriter, id string) {
	t, meta, err := s.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, trajectoryResponse{
		Meta:             *meta,
		X:                t.X,
		Y:                t.Y,
		Time:             t.Time,
		DisplacementTime: t.DisplacementTime,
		PathLength:       t.PathLength(),
	})
}

func (s *Server) deleteTrajectory(w http.ResponseWriter, id string) {
	if err := s.store.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// transformTrajectory loads a trajectory, applies the named transformation,
// and stores the result as a new trajectory derived from the original.
func (s *Server) transformTrajectory(w http.ResponseWriter, r *http.Request, id, action string) {
	t, meta, err := s.store.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	q := r.URL.Query()
	var out *traj.Trajectory
	switch action {
	case "rediscretize":
		step, err := strconv.ParseFloat(q.Get("step"), 64)
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("invalid step parameter %q", q.Get("step")))
			return
		}
		out, err = traj.Rediscretize(t, step)
		if err != nil {
			writeTrajError(w, err)
			return
		}
	case "smooth":
		order := s.cfg.GetSmoothOrder()
		if v := q.Get("order"); v != "" {
			var err error
			order, err = strconv.Atoi(v)
			if err != nil {
				httputil.BadRequest(w, fmt.Sprintf("invalid order parameter %q", v))
				return
			}
		}
		window := s.cfg.GetSmoothWindow()
		if v := q.Get("window"); v != "" {
			var err error
			window, err = strconv.Atoi(v)
			if err != nil {
				httputil.BadRequest(w, fmt.Sprintf("invalid window parameter %q", v))
				return
			}
		}
		out, err = traj.SmoothSG(t, order, window)
		if err != nil {
			writeTrajError(w, err)
			return
		}
	case "scale":
		factor, err := strconv.ParseFloat(q.Get("factor"), 64)
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("invalid factor parameter %q", q.Get("factor")))
			return
		}
		unit := q.Get("units")
		if unit != "" && !units.IsValid(unit) {
			httputil.BadRequest(w, fmt.Sprintf("invalid units %q, valid units are: %s",
				unit, units.GetValidUnitsString()))
			return
		}
		out, err = traj.Scale(t, factor, unit)
		if err != nil {
			writeTrajError(w, err)
			return
		}
	}

	source := map[string]string{
		"rediscretize": "rediscretized",
		"smooth":       "smoothed",
		"scale":        "scaled",
	}[action]
	label := meta.Label
	if label != "" {
		label += " "
	}
	newID, err := s.store.Save(label+"("+source+")", source, out)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to save derived trajectory: %v", err))
		return
	}
	newMeta, err := s.store.GetMeta(newID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load derived trajectory: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newMeta)
}

// parseColumnRef interprets a column parameter as a zero-based index when it
// parses as an integer, and as a header name otherwise.
func parseColumnRef(v string) traj.ColumnRef {
	if i, err := strconv.Atoi(v); err == nil {
		return traj.IndexedColumn(i)
	}
	return traj.NamedColumn(v)
}

func writeTrajError(w http.ResponseWriter, err error) {
	if errors.Is(err, traj.ErrInvalidInput) {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, trajdb.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}
