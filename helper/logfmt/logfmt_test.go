package logfmt

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestUptimeFormat(t *testing.T) {
	start := time.Now()
	f := &UptimeFormatter{Start: start}

	out, err := f.Format(&logrus.Entry{
		Time:    start.Add(7 * time.Second),
		Level:   logrus.InfoLevel,
		Message: `My address is "127.0.0.1:9000"`,
	})
	require.NoError(t, err)
	require.Equal(t, "00:00:07 - My address is \"127.0.0.1:9000\"\n", string(out))

	out, err = f.Format(&logrus.Entry{
		Time:    start.Add(1*time.Hour + 2*time.Minute + 3*time.Second),
		Level:   logrus.ErrorLevel,
		Message: "boom",
	})
	require.NoError(t, err)
	require.Equal(t, "01:02:03 - ERROR - boom\n", string(out))
}

func TestUptimeFormatClampsNegative(t *testing.T) {
	f := &UptimeFormatter{Start: time.Now()}
	out, err := f.Format(&logrus.Entry{
		Time:    f.Start.Add(-time.Second),
		Level:   logrus.InfoLevel,
		Message: "early",
	})
	require.NoError(t, err)
	require.Equal(t, "00:00:00 - early\n", string(out))
}
