package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// StartJobs starts the background job scheduler.
func StartJobs(app JobContext) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startViewRollupJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
}

func startViewRollupJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().RollupInterval
	if interval == 0 {
		log.Println("View rollup interval is 0, scheduled rollup is disabled.")
		return
	}

	jobId := "view-rollup"
	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobId, interval)

	_, err := s.Every(interval).Minutes().Do(func() {
		log.Println("Scheduler is triggering job:", jobId)
		// Submit the job through the manager so it cannot overlap with a
		// manually triggered run.
		err := app.JobManager().RunJob(jobId, app)
		if err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobId, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobId, err)
	}
}
