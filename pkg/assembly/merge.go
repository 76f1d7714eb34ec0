package assembly

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rigport/rigport/pkg/asset"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/host"
	"github.com/rigport/rigport/pkg/observability"
	"github.com/rigport/rigport/pkg/skeleton"
)

// mergeGroup unions the merge set of a group into one master skeleton and
// constrains the attach set to it.
func (j *Job) mergeGroup(ctx context.Context, logger *log.Logger, g asset.Group, loaded []loadedPart) (mr *MergeReport, err error) {
	mr = &MergeReport{Stage: skeleton.StageUnprocessed}
	hooks := observability.Assembly()
	hooks.OnMergeStart(ctx, g.Name, len(loaded))
	start := time.Now()
	defer func() {
		if err != nil {
			mr.Error = errors.UserMessage(err)
		}
		hooks.OnMergeComplete(ctx, g.Name, mr.Stage.String(), time.Since(start), err)
	}()

	parts := make([]asset.Part, len(loaded))
	for i, lp := range loaded {
		parts[i] = lp.part
	}
	mergeSet, attachSet := asset.Classify(parts)
	queue := newPartQueue(loaded)
	if len(mergeSet) == 0 {
		logger.Warn("nothing to merge", "attached", len(attachSet))
		return mr, nil
	}

	kinds := make([]string, len(mergeSet))
	for i, p := range mergeSet {
		kinds[i] = p.Type
	}
	order := skeleton.UnionOrder(kinds)
	skels := make([]host.Handle, len(order))
	meshes := make([]host.Handle, len(order))
	for i, idx := range order {
		lp := queue.take(mergeSet[idx].Path)
		skels[i], meshes[i] = lp.skel, lp.mesh
		mr.Merged = append(mr.Merged, lp.part.Path)
	}
	mr.Primary = mr.Merged[0]

	master, err := j.host.UnionSkeletons(ctx, skels)
	if err != nil {
		return mr, errors.Wrap(errors.ErrCodeUnionFailure, err, "union skeletons of %s", g.Name)
	}
	if _, err := j.host.UnionMeshes(ctx, meshes); err != nil {
		return mr, errors.Wrap(errors.ErrCodeUnionFailure, err, "union meshes of %s", g.Name)
	}
	mr.Stage = skeleton.StageUnioned

	bones, err := j.host.EnumerateBones(ctx, master)
	if err != nil {
		return mr, errors.Wrap(errors.ErrCodeInternal, err, "enumerate bones")
	}
	plan, _, err := skeleton.PlanMerge(bones)
	if err != nil {
		return mr, errors.Wrap(errors.ErrCodeInternal, err, "plan merge of %s", g.Name)
	}
	mr.Plan = plan

	if len(plan.Remove) > 0 {
		if err := j.host.RemoveBones(ctx, master, plan.Remove); err != nil {
			return mr, errors.Wrap(errors.ErrCodeInternal, err, "remove duplicate bones")
		}
	}
	mr.Stage = skeleton.StageDeduplicated

	for _, link := range plan.Reparent {
		if err := j.host.SetBoneParent(ctx, master, link.Bone, link.Parent); err != nil {
			return mr, errors.Wrap(errors.ErrCodeInternal, err, "parent %s to %s", link.Bone, link.Parent)
		}
	}
	mr.Stage = skeleton.StageReparented

	bones, err = j.host.EnumerateBones(ctx, master)
	if err != nil {
		return mr, errors.Wrap(errors.ErrCodeInternal, err, "enumerate bones")
	}
	mr.Hierarchy, err = skeleton.FromBones(bones)
	if err != nil {
		return mr, errors.Wrap(errors.ErrCodeInternal, err, "read master skeleton")
	}
	logger.Info("merged skeletons",
		"parts", len(mergeSet),
		"bones", mr.Hierarchy.Len(),
		"removed", len(plan.Remove),
		"reparented", len(plan.Reparent))

	j.attach(ctx, logger, g, master, attachSet, queue, mr)
	mr.Stage = skeleton.StageDone
	return mr, nil
}

// attach constrains each socket-attached part to the master skeleton.
// Parts without a socket, or whose socket bone is not on the master, are
// skipped with a MISSING_SOCKET warning.
func (j *Job) attach(ctx context.Context, logger *log.Logger, g asset.Group, master host.Handle, attachSet []asset.Part, queue partQueue, mr *MergeReport) {
	refs := make([]string, len(attachSet))
	for i, p := range attachSet {
		refs[i] = string(queue.take(p.Path).skel)
	}
	directives, skipped := skeleton.Attachments(attachSet, refs)
	for _, err := range skipped {
		j.warn(g.Name, "", err)
		logger.Warn("part not attached", "err", errors.UserMessage(err))
	}

	for _, d := range directives {
		if !mr.Hierarchy.Has(d.ParentBone) {
			err := errors.New(errors.ErrCodeMissingSocket, "socket bone %q is not on the master skeleton", d.ParentBone)
			j.warn(g.Name, "", err)
			logger.Warn("part not attached", "socket", d.ParentSocketName, "err", errors.UserMessage(err))
			continue
		}
		if err := j.host.CreateConstraint(ctx, host.Handle(d.Child), master, d.ParentBone, d.Rotation); err != nil {
			j.warn(g.Name, "", errors.Wrap(errors.ErrCodeMissingSocket, err, "constrain to %s", d.ParentBone))
			logger.Warn("constraint failed", "socket", d.ParentSocketName, "err", err)
			continue
		}
		mr.Attachments = append(mr.Attachments, d)
		logger.Debug("attached part", "socket", d.ParentSocketName)
	}
}

// partQueue hands out loaded parts by path, in load order, so that two
// parts sharing a path keep their own handles.
type partQueue map[string][]loadedPart

func newPartQueue(loaded []loadedPart) partQueue {
	q := make(partQueue, len(loaded))
	for _, lp := range loaded {
		q[lp.part.Path] = append(q[lp.part.Path], lp)
	}
	return q
}

func (q partQueue) take(path string) loadedPart {
	lps := q[path]
	if len(lps) == 0 {
		return loadedPart{}
	}
	q[path] = lps[1:]
	return lps[0]
}
