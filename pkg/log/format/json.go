package format

import (
	"github.com/sirupsen/logrus"
)

// NewJSONFormatter returns the logrus JSON formatter configured for machine consumption.
func NewJSONFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "msg",
		},
	}
}
