package email

import "fmt"

const (
	// SubjectQuoteFmt formats the customer-facing quote subject:
	// "Offerte <business> - <activityType>".
	SubjectQuoteFmt = "Offerte %s - %s"

	subjectStatusNotificationFmt = "Statuswijziging aanvraag: %s"
)

// QuoteSubject builds the customer-facing quote subject line.
func QuoteSubject(businessName, activityType string) string {
	return fmt.Sprintf(SubjectQuoteFmt, businessName, activityType)
}

// StatusNotificationSubject builds the operator notification subject for a
// request identified by its contact name.
func StatusNotificationSubject(contactName string) string {
	return fmt.Sprintf(subjectStatusNotificationFmt, contactName)
}
