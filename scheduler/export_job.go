package scheduler

import (
	"context"
	"log"

	"movieshelf/notifier"
	"movieshelf/storage"
	"movieshelf/website"
)

// WebsiteExportJob regenerates the static page for every stored user and
// optionally emails each user's collection digest.
type WebsiteExportJob struct {
	store         storage.StorageInterface
	site          *website.Generator
	emailNotifier *notifier.EmailNotifier
	sendEmails    bool
}

// NewWebsiteExportJob creates a new website export job
func NewWebsiteExportJob(store storage.StorageInterface, site *website.Generator) *WebsiteExportJob {
	// Get email configuration from environment variables
	emailConfig := notifier.GetEmailConfigFromEnv()
	var emailNotifier *notifier.EmailNotifier
	sendEmails := false

	// Only create email notifier if SMTP host and recipient are configured
	if emailConfig.SMTPHost != "" && emailConfig.RecipientEmail != "" {
		var err error
		emailNotifier, err = notifier.NewEmailNotifier(emailConfig)
		if err != nil {
			log.Printf("Failed to create email notifier: %v", err)
		} else {
			sendEmails = true
			log.Printf("Export digests will be sent to: %s", emailConfig.RecipientEmail)
		}
	} else {
		log.Println("Export digests disabled: missing email configuration")
	}

	return &WebsiteExportJob{
		store:         store,
		site:          site,
		emailNotifier: emailNotifier,
		sendEmails:    sendEmails,
	}
}

// Name returns the name of the job
func (j *WebsiteExportJob) Name() string {
	return "website_export"
}

// Run executes the job
func (j *WebsiteExportJob) Run(ctx context.Context) error {
	users, err := j.store.ListUsers()
	if err != nil {
		return err
	}

	log.Printf("Exporting websites for %d user(s)", len(users))

	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		movies, err := j.store.ListMovies(user.ID)
		if err != nil {
			log.Printf("Error listing movies for %s: %v", user.Name, err)
			continue
		}

		outputPath, err := j.site.Generate(user, movies)
		if err != nil {
			log.Printf("Error generating website for %s: %v", user.Name, err)
			continue
		}
		log.Printf("Generated %s (%d movies)", outputPath, len(movies))

		if j.sendEmails {
			if err := j.emailNotifier.SendCollectionDigest(ctx, user, movies); err != nil {
				log.Printf("Error sending digest for %s: %v", user.Name, err)
			}
		}
	}

	return nil
}
