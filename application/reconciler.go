package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/tipee-sa/vendors-upgrade-report-action/domain"
)

// CommentReconciler converges the remote comment set of one report identity
// onto a freshly assembled report. The snapshot fetched at the start of the
// run is treated as authoritative; comments without a parseable marker of the
// expected report type are invisible and never touched.
type CommentReconciler struct {
	comments domain.CommentAPI
	pacer    *WritePacer
}

// NewCommentReconciler creates a reconciler writing through the given comment
// API under the given pacing policy.
func NewCommentReconciler(comments domain.CommentAPI, pacer *WritePacer) *CommentReconciler {
	return &CommentReconciler{comments: comments, pacer: pacer}
}

// Reconcile maps the new vendor sections onto the tracked comments for
// reportType found in snapshot. It short-circuits with zero API calls when the
// earliest tracked comment's fingerprint matches contentHash and the tracked
// count matches its declared total; otherwise it updates existing vendors,
// creates missing ones, and deletes vanished ones, one write at a time.
func (r *CommentReconciler) Reconcile(
	ctx context.Context,
	reportType domain.ReportType,
	snapshot []domain.Comment,
	sections []domain.VendorSection,
	contentHash string,
) error {
	tracked := trackedComments(snapshot, reportType)

	if len(tracked) > 0 {
		earliest := tracked[0].Marker
		if earliest.ContentHash == contentHash && earliest.VendorCount == len(tracked) {
			logger.Infof("[%s] Report already current (%d comments), nothing to do",
				reportType, len(tracked))
			return nil
		}
	}

	if len(sections) == 0 {
		return r.deleteAll(ctx, reportType, tracked)
	}

	byVendor := make(map[string]domain.TrackedComment, len(tracked))
	var stale []domain.TrackedComment
	for _, comment := range tracked {
		if _, dup := byVendor[comment.Marker.Vendor]; dup {
			stale = append(stale, comment) // duplicate marker, drop the later one
			continue
		}
		byVendor[comment.Marker.Vendor] = comment
	}

	total := len(sections)
	for _, section := range sections {
		marker := domain.CommentMarker{
			ReportType:  reportType,
			Vendor:      section.Vendor,
			ContentHash: contentHash,
			VendorCount: total,
		}
		body := marker.Encode() + "\n" + section.Body

		if existing, ok := byVendor[section.Vendor]; ok {
			delete(byVendor, section.Vendor)
			id := existing.ID
			err := r.pacer.Run(fmt.Sprintf("update %s comment for %s", reportType, section.Vendor),
				func() error { return r.comments.UpdateComment(ctx, id, body) })
			if err != nil {
				return err
			}
			logger.Infof("[%s] Updated comment %d for vendor %s", reportType, id, section.Vendor)
			continue
		}

		var id int64
		err := r.pacer.Run(fmt.Sprintf("create %s comment for %s", reportType, section.Vendor),
			func() error {
				var createErr error
				id, createErr = r.comments.CreateComment(ctx, body)
				return createErr
			})
		if err != nil {
			return err
		}
		logger.Infof("[%s] Created comment %d for vendor %s", reportType, id, section.Vendor)
	}

	// Vendors tracked remotely but absent from the new report.
	for _, comment := range tracked {
		if remaining, ok := byVendor[comment.Marker.Vendor]; ok && remaining.ID == comment.ID {
			stale = append(stale, comment)
		}
	}

	return r.deleteAll(ctx, reportType, stale)
}

func (r *CommentReconciler) deleteAll(
	ctx context.Context,
	reportType domain.ReportType,
	comments []domain.TrackedComment,
) error {
	for _, comment := range comments {
		id := comment.ID
		err := r.pacer.Run(fmt.Sprintf("delete %s comment for %s", reportType, comment.Marker.Vendor),
			func() error { return r.comments.DeleteComment(ctx, id) })
		if err != nil {
			return err
		}
		logger.Infof("[%s] Deleted comment %d for vendor %s", reportType, id, comment.Marker.Vendor)
	}
	return nil
}

// trackedComments filters the snapshot down to comments carrying a parseable
// marker of the given report type, preserving ID order.
func trackedComments(snapshot []domain.Comment, reportType domain.ReportType) []domain.TrackedComment {
	var tracked []domain.TrackedComment
	for _, comment := range snapshot {
		marker, ok := domain.ParseCommentMarker(comment.Body)
		if !ok || marker.ReportType != reportType {
			continue
		}
		tracked = append(tracked, domain.TrackedComment{ID: comment.ID, Marker: marker})
	}
	return tracked
}
