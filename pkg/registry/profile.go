package registry

import "bundlenet/pkg/models"

// ProfileByHandle assembles the public profile behind a handle. The follower
// count lives in the social graph and is filled in by the caller.
func (r *Registry) ProfileByHandle(handle string) (models.Profile, error) {
	owner, err := r.ResolveHandle(handle)
	if err != nil {
		return models.Profile{}, err
	}
	return r.ProfileByOwner(owner)
}

// ProfileByOwner assembles the public profile of a registered owner.
func (r *Registry) ProfileByOwner(owner string) (models.Profile, error) {
	acct, err := r.Account(owner)
	if err != nil {
		return models.Profile{}, err
	}
	img, err := r.Thumbnail(owner)
	if err != nil {
		return models.Profile{}, err
	}
	deactivated, err := r.IsDeactivated(owner)
	if err != nil {
		return models.Profile{}, err
	}
	return models.Profile{
		Handle:      acct.Handle,
		Description: acct.Description,
		Thumbnail:   img,
		Active:      !deactivated,
	}, nil
}
