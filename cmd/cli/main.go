// Command hireloop is the operations CLI: migrations, seed data, staff
// token minting and quick pipeline queries against the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/yourorg/hireloop/internal/domain"
	"github.com/yourorg/hireloop/internal/observability/logging"
	"github.com/yourorg/hireloop/internal/repository"
	"github.com/yourorg/hireloop/internal/security/auth"
	"github.com/yourorg/hireloop/pkg/config"
	"github.com/yourorg/hireloop/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "admin":
		handleAdmin(args)
	case "job":
		handleJob(args)
	case "application":
		handleApplication(args)
	case "token":
		mintToken(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: hireloop <command> [options]

Commands:
  admin migrate                       apply pending schema migrations
  admin seed                          load demo data
  job list -tenant <id>               list a tenant's postings
  job create -tenant <id> -user <id> -title <t>
                                      create a posting (-description, -location, -remote)
  application list -tenant <id>       list applications (-job, -stage, -min-score)
  application stage -tenant <id> -id <id> -stage <STAGE>
  application notes -tenant <id> -id <id> -notes <text>
  token -user <id> -org <id> [-role org:admin] [-ttl 24h]
  help                                show this help`)
}

func openStore() (*repository.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logging.NewLogger("warn")
	pool, err := database.NewConnectionPool(context.Background(), cfg.DatabaseURL, database.PoolConfig{}, log)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewStore(pool.GetDB(), log), func() { pool.Close() }, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func handleAdmin(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hireloop admin <migrate|seed>")
		return
	}
	switch args[0] {
	case "migrate":
		runMigrations()
	case "seed":
		runSeed()
	default:
		fmt.Printf("unknown admin command: %s\n", args[0])
	}
}

func runMigrations() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	log := logging.NewLogger(cfg.LogLevel)
	pool, err := database.NewConnectionPool(context.Background(), cfg.DatabaseURL, database.PoolConfig{}, log)
	if err != nil {
		fatal(err)
	}
	defer pool.Close()
	if err := database.Migrate(pool.GetDB(), log); err != nil {
		fatal(err)
	}
	fmt.Println("migrations applied")
}

func handleJob(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hireloop job <list|create>")
		return
	}
	switch args[0] {
	case "list":
		listJobs(args[1:])
	case "create":
		createJob(args[1:])
	default:
		fmt.Printf("unknown job command: %s\n", args[0])
	}
}

func createJob(args []string) {
	fs := flag.NewFlagSet("job create", flag.ExitOnError)
	tenantID := fs.String("tenant", "", "tenant id")
	userID := fs.String("user", "", "creating user id")
	title := fs.String("title", "", "posting title")
	description := fs.String("description", "", "posting description")
	location := fs.String("location", "", "location, empty for unspecified")
	remote := fs.Bool("remote", false, "remote friendly")
	fs.Parse(args)
	if *tenantID == "" || *userID == "" || *title == "" {
		fatal(fmt.Errorf("-tenant, -user and -title are required"))
	}

	store, closeFn, err := openStore()
	if err != nil {
		fatal(err)
	}
	defer closeFn()

	job := &domain.Job{
		TenantID:    *tenantID,
		Title:       *title,
		Description: *description,
		IsRemote:    *remote,
		CreatedByID: *userID,
	}
	if *location != "" {
		job.Location = location
	}
	if err := store.Jobs().Create(context.Background(), job); err != nil {
		fatal(err)
	}
	fmt.Printf("created job %s\n", job.ID)
}

func listJobs(args []string) {
	fs := flag.NewFlagSet("job list", flag.ExitOnError)
	tenantID := fs.String("tenant", "", "tenant id")
	fs.Parse(args)
	if *tenantID == "" {
		fatal(fmt.Errorf("-tenant is required"))
	}

	store, closeFn, err := openStore()
	if err != nil {
		fatal(err)
	}
	defer closeFn()

	jobs, err := store.Jobs().ListByTenant(context.Background(), *tenantID)
	if err != nil {
		fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tREMOTE\tCREATED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", j.ID, j.Title, j.IsRemote, j.CreatedAt.Format(time.DateOnly))
	}
	w.Flush()
}

func handleApplication(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: hireloop application <list|stage|notes>")
		return
	}
	switch args[0] {
	case "list":
		listApplications(args[1:])
	case "stage":
		setStage(args[1:])
	case "notes":
		setNotes(args[1:])
	default:
		fmt.Printf("unknown application command: %s\n", args[0])
	}
}

func listApplications(args []string) {
	fs := flag.NewFlagSet("application list", flag.ExitOnError)
	tenantID := fs.String("tenant", "", "tenant id")
	jobID := fs.String("job", "", "filter by job id")
	stage := fs.String("stage", "", "filter by stage")
	minScore := fs.Int("min-score", 0, "minimum score")
	fs.Parse(args)
	if *tenantID == "" {
		fatal(fmt.Errorf("-tenant is required"))
	}

	store, closeFn, err := openStore()
	if err != nil {
		fatal(err)
	}
	defer closeFn()

	apps, err := store.Applications().ListByTenant(context.Background(), *tenantID, domain.ApplicationFilter{
		JobID:    *jobID,
		Stage:    domain.Stage(*stage),
		MinScore: *minScore,
	})
	if err != nil {
		fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCANDIDATE\tJOB\tSTAGE\tSCORE")
	for _, a := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", a.ID, a.CandidateName, a.JobTitle, a.Stage, a.Score)
	}
	w.Flush()
}

func setStage(args []string) {
	fs := flag.NewFlagSet("application stage", flag.ExitOnError)
	tenantID := fs.String("tenant", "", "tenant id")
	id := fs.String("id", "", "application id")
	stage := fs.String("stage", "", "target stage")
	fs.Parse(args)
	if *tenantID == "" || *id == "" || *stage == "" {
		fatal(fmt.Errorf("-tenant, -id and -stage are required"))
	}
	if !domain.Stage(*stage).Valid() {
		fatal(fmt.Errorf("unknown stage %q", *stage))
	}

	store, closeFn, err := openStore()
	if err != nil {
		fatal(err)
	}
	defer closeFn()

	if err := store.Applications().UpdateStage(context.Background(), *id, *tenantID, domain.Stage(*stage)); err != nil {
		fatal(err)
	}
	fmt.Println("stage updated")
}

func setNotes(args []string) {
	fs := flag.NewFlagSet("application notes", flag.ExitOnError)
	tenantID := fs.String("tenant", "", "tenant id")
	id := fs.String("id", "", "application id")
	notes := fs.String("notes", "", "notes text, empty clears")
	fs.Parse(args)
	if *tenantID == "" || *id == "" {
		fatal(fmt.Errorf("-tenant and -id are required"))
	}

	store, closeFn, err := openStore()
	if err != nil {
		fatal(err)
	}
	defer closeFn()

	var value *string
	if *notes != "" {
		value = notes
	}
	if err := store.Applications().UpdateNotes(context.Background(), *id, *tenantID, value); err != nil {
		fatal(err)
	}
	fmt.Println("notes updated")
}

func mintToken(args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	userID := fs.String("user", "", "external user id")
	orgID := fs.String("org", "", "org id")
	role := fs.String("role", "org:admin", "org role")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	fs.Parse(args)
	if *userID == "" || *orgID == "" {
		fatal(fmt.Errorf("-user and -org are required"))
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	tm := auth.NewTokenManager(cfg.StaffJWTSecret, cfg.StaffJWTIssuer)
	token, err := tm.GenerateToken(*userID, *orgID, *role, *ttl)
	if err != nil {
		fatal(err)
	}
	fmt.Println(token)
}
