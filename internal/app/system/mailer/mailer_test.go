package mailer_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/mailer"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildAutoGroupedEmail(t *testing.T) {
	e := mailer.BuildAutoGroupedEmail(mailer.AutoGroupedEmailData{
		SiteName:     "Groupwork",
		AssignmentID: "CS101-A1",
		GroupURL:     "https://groupwork.example.edu/groups/abc",
		LeaderID:     "s2",
		MemberIDs:    []string{"s1", "s3"},
	})

	if !strings.Contains(e.Subject, "CS101-A1") {
		t.Errorf("Subject: got %q", e.Subject)
	}
	for _, want := range []string{"Group leader: s2", "Members: s1, s3", "https://groupwork.example.edu/groups/abc"} {
		if !strings.Contains(e.TextBody, want) {
			t.Errorf("TextBody missing %q:\n%s", want, e.TextBody)
		}
	}
	if !strings.Contains(e.HTMLBody, "<li>s3</li>") {
		t.Errorf("HTMLBody missing member list:\n%s", e.HTMLBody)
	}
	if e.To != "" {
		t.Errorf("To: got %q, want empty", e.To)
	}
}

func TestBuildAutoGroupedEmail_EscapesHTML(t *testing.T) {
	e := mailer.BuildAutoGroupedEmail(mailer.AutoGroupedEmailData{
		AssignmentID: "<script>x</script>",
	})
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("HTMLBody: expected assignment id to be escaped")
	}
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := mailer.LogSender{Log: zap.New(core)}

	if err := s.Send(context.Background(), mailer.Email{To: "a@example.edu", Subject: "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one log line, got %d", logs.Len())
	}
}

type recordingSender struct {
	mu  sync.Mutex
	got []mailer.Email
}

func (r *recordingSender) Send(ctx context.Context, e mailer.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, e)
	return nil
}

func TestAsync_SkipsEmptyRecipient(t *testing.T) {
	rec := &recordingSender{}
	a := mailer.NewAsync(rec, zap.NewNop(), time.Second)
	a.Start()
	defer a.Stop()

	a.Send(mailer.Email{To: "a@example.edu"})
	a.Send(mailer.Email{})
	a.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.got) != 1 || rec.got[0].To != "a@example.edu" {
		t.Errorf("sent: got %+v", rec.got)
	}
}
