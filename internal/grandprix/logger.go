package grandprix

import "github.com/sirupsen/logrus"

// Logger is the logging interface used throughout the race engine. It is
// satisfied by *logrus.Logger and *logrus.Entry.
type Logger interface {
	logrus.FieldLogger
}
