package dieselcore

// RequiredQueueFlags must all be supported by the chosen queue family.
const RequiredQueueFlags = QueueGraphics | QueueTransfer

// FindQueueFamily returns the first queue family that holds more than one
// queue, supports graphics and transfer work and can present to the surface.
//
// The graphics and transfer roles always share this family. Choosing separate
// families when the hardware offers them is not attempted.
func FindQueueFamily(driver Driver, gpu PhysicalDevice, surface Surface) (uint32, bool, error) {
	for index, family := range driver.QueueFamilies(gpu) {
		if family.Count <= 1 || !family.Flags.Has(RequiredQueueFlags) {
			continue
		}
		present, err := driver.SurfaceSupport(gpu, uint32(index), surface)
		if err != nil {
			return 0, false, err
		}
		if present {
			return uint32(index), true, nil
		}
	}
	return 0, false, nil
}
