package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ChicagoDave/realmmap/internal/logger"
	"github.com/ChicagoDave/realmmap/internal/server"
	"github.com/ChicagoDave/realmmap/pkg/access"
	"github.com/ChicagoDave/realmmap/pkg/generate"
	"github.com/ChicagoDave/realmmap/pkg/lords"
	"github.com/ChicagoDave/realmmap/pkg/project"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/render"
	"github.com/ChicagoDave/realmmap/pkg/snapshot"
	"github.com/ChicagoDave/realmmap/pkg/store"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// errInvalidProject is returned by validate when the report has errors.
var errInvalidProject = errors.New("project has validation errors")

// env bundles what every command needs once the project is loaded.
type env struct {
	project *project.Project
	store   store.Store
	token   access.Token
	roster  *lords.Roster
	log     *slog.Logger
}

func (e *env) Close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.log.Warn("closing store", "error", err)
	}
}

// openEnv loads the project, sets up logging and opens the store. The
// roster is optional: a missing roster file leaves it nil.
func openEnv(ctx context.Context, projectPath string) (*env, error) {
	p, err := project.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	log := logger.Setup(p.Log)

	tok, err := access.FromCredentialFile(p.Resolve(p.Access.CredentialFile), p.Access.WriteHash)
	if err != nil {
		return nil, err
	}
	log.Debug("access", "token", tok.String())

	roster, err := loadRoster(p)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, p.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &env{project: p, store: s, token: tok, roster: roster, log: log}, nil
}

func loadRoster(p *project.Project) (*lords.Roster, error) {
	path := p.Resolve(p.Lords.Roster)
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return lords.LoadRoster(path)
}

// loadMap returns the persisted map, or generates one from the project
// params when the store is empty. The second result reports whether the
// map came from the store.
func (e *env) loadMap(ctx context.Context) (*realm.Map, bool, error) {
	m, ok, err := snapshot.Load(ctx, e.store)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return m, true, nil
	}
	e.log.Info("no persisted map, generating from project params", "seed", e.project.Map.Seed)
	res, err := generate.Run(ctx, e.project.Map)
	if err != nil {
		return nil, false, err
	}
	return res.Map, false, nil
}

// assignOwners applies the roster to m. Fiefs the map lacks are logged.
func (e *env) assignOwners(m *realm.Map) (*realm.Map, error) {
	out, err := lords.Owners(e.roster, e.log)(m)
	if err != nil {
		return nil, fmt.Errorf("assigning lords: %w", err)
	}
	return out, nil
}

func (e *env) save(ctx context.Context, m *realm.Map) error {
	return snapshot.Save(ctx, e.store, m, e.token)
}

func runInit(projectPath string) error {
	p := project.Default(projectPath)
	path, err := project.Write(projectPath, p)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Set access.write_hash (see `realmmap hash`) and put the secret in admin.auth to enable saving.")
	return nil
}

func runHash(secret string) error {
	h, err := access.HashSecret(secret)
	if err != nil {
		return err
	}
	fmt.Println(h)
	return nil
}

type generateOptions struct {
	seed    int64
	seedSet bool
	random  bool
	dryRun  bool
}

func runGenerate(ctx context.Context, projectPath string, opts generateOptions) error {
	e, err := openEnv(ctx, projectPath)
	if err != nil {
		return err
	}
	defer e.Close()

	params := e.project.Map
	switch {
	case opts.random:
		if params.Seed, err = generate.NewSeed(); err != nil {
			return err
		}
	case opts.seedSet:
		params.Seed = opts.seed
	}

	res, err := generate.Run(ctx, params)
	if err != nil {
		var pe *generate.ParamsError
		if errors.As(err, &pe) {
			printValidationReport(os.Stdout, pe.Report)
			return errors.New("map parameters have validation errors")
		}
		return err
	}

	m, err := e.assignOwners(res.Map)
	if err != nil {
		return err
	}

	if len(res.Report.Warnings) > 0 || len(res.Report.Info) > 0 {
		printValidationReport(os.Stdout, res.Report)
		fmt.Println()
	}
	printSummary(os.Stdout, m.Summarize())
	fmt.Printf("\nGenerated in %s\n", res.Duration.Round(time.Millisecond))

	if opts.dryRun {
		return nil
	}
	if !e.token.CanWrite() {
		fmt.Printf("Not saved: %s\n", e.token)
		return nil
	}
	if err := e.save(ctx, m); err != nil {
		return err
	}
	fmt.Printf("Saved %s as %s\n", m.ID, e.token.Subject())
	return nil
}

func runServe(ctx context.Context, projectPath, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, projectPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if addr == "" {
		addr = e.project.Server.Addr
	}

	pub := generate.NewPublisher(nil)
	m, ok, err := snapshot.Load(ctx, e.store)
	if err != nil {
		return err
	}
	if ok {
		pub.Publish(m)
	} else {
		e.log.Info("store is empty; POST /api/regenerate to create a map")
	}

	srv := server.New(server.Options{
		Addr:      addr,
		Params:    e.project.Map,
		Publisher: pub,
		Store:     e.store,
		Token:     e.token,
		Roster:    e.roster,
		Logger:    e.log,
	})
	return srv.Start(ctx)
}

type renderOptions struct {
	output string
	width  int
	height int
}

func runRender(ctx context.Context, projectPath string, opts renderOptions) error {
	e, err := openEnv(ctx, projectPath)
	if err != nil {
		return err
	}
	defer e.Close()

	m, _, err := e.loadMap(ctx)
	if err != nil {
		return err
	}
	if m, err = e.assignOwners(m); err != nil {
		return err
	}

	write := render.WriteSVG
	switch strings.ToLower(filepath.Ext(opts.output)) {
	case ".svg":
	case ".png":
		write = render.WritePNG
	default:
		return fmt.Errorf("unsupported output format %q (use .svg or .png)", filepath.Ext(opts.output))
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	vp := render.FitViewport(m.Area.Width, m.Area.Height, opts.width, opts.height)
	if err := write(f, render.Render(m), vp); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", opts.output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d)\n", opts.output, opts.width, opts.height)
	return nil
}

func runValidate(ctx context.Context, projectPath string) error {
	e, err := openEnv(ctx, projectPath)
	if err != nil {
		return err
	}
	defer e.Close()

	report := e.project.ValidateParams()

	_, ok, err := snapshot.Load(ctx, e.store)
	var perr *store.PersistenceError
	switch {
	case errors.As(err, &perr) && perr.Op == "validate":
		report.AddError(validation.Result{
			Level:    validation.LevelIntegrity,
			Severity: validation.SeverityError,
			Message:  perr.Err.Error(),
			Path:     perr.Key,
		})
	case err != nil:
		return err
	case !ok:
		report.AddInfo(validation.Result{
			Level:    validation.LevelIntegrity,
			Severity: validation.SeverityInfo,
			Message:  "no persisted map to check",
		})
	}

	printValidationReport(os.Stdout, report)
	if !report.Valid {
		return errInvalidProject
	}
	return nil
}

func runInspect(ctx context.Context, projectPath string, asJSON bool) error {
	e, err := openEnv(ctx, projectPath)
	if err != nil {
		return err
	}
	defer e.Close()

	m, ok, err := snapshot.Load(ctx, e.store)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no persisted map; run `realmmap generate` first")
	}

	sum := m.Summarize()
	if asJSON {
		return writeIndentedJSON(os.Stdout, sum)
	}
	printSummary(os.Stdout, sum)
	return nil
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLords(ctx context.Context, projectPath string, apply bool) error {
	e, err := openEnv(ctx, projectPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.roster == nil {
		return fmt.Errorf("no lord roster at %s", e.project.Resolve(e.project.Lords.Roster))
	}

	m, ok, err := snapshot.Load(ctx, e.store)
	if err != nil {
		return err
	}
	printLords(os.Stdout, e.roster, m)

	if !apply {
		return nil
	}
	if !ok {
		return errors.New("no persisted map to apply the roster to")
	}
	out, err := e.assignOwners(m)
	if err != nil {
		return err
	}
	if err := e.save(ctx, out); err != nil {
		return err
	}
	fmt.Printf("\nApplied roster to %s\n", out.ID)
	return nil
}
